package session_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physlab/internal/config"
	"github.com/san-kum/physlab/internal/dynamo"
	"github.com/san-kum/physlab/internal/projectile"
	"github.com/san-kum/physlab/internal/scheduler"
	"github.com/san-kum/physlab/internal/session"
)

var _ = Describe("Projectile session", func() {
	var (
		store  *config.Store
		manual *scheduler.Manual
		sess   *session.Projectile
	)

	BeforeEach(func() {
		store = config.NewStore(config.DefaultSimConfig())
		manual = scheduler.NewManual()
		sess = session.NewProjectile(store, manual, projectile.TimeStep)
		DeferCleanup(sess.Stop)
	})

	It("publishes an idle snapshot on creation", func() {
		snap := sess.Snapshot()
		Expect(snap.Phase).To(Equal(projectile.Idle))
		Expect(snap.Preview).NotTo(BeEmpty())
		Expect(manual.Pending()).To(BeZero())
	})

	It("schedules a tick only while in flight", func() {
		Expect(sess.Launch()).To(Succeed())
		Expect(sess.InFlight()).To(BeTrue())
		Expect(manual.Pending()).To(Equal(1))

		manual.Advance(90)
		Expect(sess.Snapshot().Phase).To(Equal(projectile.InFlight))

		manual.Advance(1)
		snap := sess.Snapshot()
		Expect(snap.Phase).To(Equal(projectile.Landed))
		Expect(snap.Position).To(Equal(snap.Impact))
		Expect(sess.InFlight()).To(BeFalse())
		Expect(manual.Pending()).To(BeZero())
	})

	It("advances elapsed by the configured step per frame", func() {
		Expect(sess.Launch()).To(Succeed())
		manual.Advance(10)
		Expect(sess.Snapshot().Elapsed).To(BeNumerically("~", 0.8, 1e-9))
	})

	It("restarts a flight in progress without a second tick", func() {
		Expect(sess.Launch()).To(Succeed())
		manual.Advance(20)
		Expect(sess.Launch()).To(Succeed())

		Expect(sess.Snapshot().Elapsed).To(BeZero())
		Expect(manual.Pending()).To(Equal(1))
		manual.Advance(1)
		Expect(sess.Snapshot().Elapsed).To(BeNumerically("~", projectile.TimeStep, 1e-9))
	})

	It("cancels the tick on reset", func() {
		Expect(sess.Launch()).To(Succeed())
		manual.Advance(5)
		Expect(sess.Reset()).To(Succeed())

		snap := sess.Snapshot()
		Expect(snap.Phase).To(Equal(projectile.Idle))
		Expect(snap.Elapsed).To(BeZero())
		Expect(manual.Pending()).To(BeZero())

		manual.Advance(5)
		Expect(sess.Snapshot().Elapsed).To(BeZero())
	})

	Context("when the store changes", func() {
		It("resets a flight on a parameter change", func() {
			Expect(sess.Launch()).To(Succeed())
			manual.Advance(10)

			store.SetAngle(30)

			snap := sess.Snapshot()
			Expect(snap.Phase).To(Equal(projectile.Idle))
			Expect(snap.Params.AngleDeg).To(Equal(30.0))
			Expect(manual.Pending()).To(BeZero())
		})

		It("ignores conductivity changes", func() {
			Expect(sess.Launch()).To(Succeed())
			manual.Advance(10)

			store.SetConductivity(0.1)

			Expect(sess.Snapshot().Phase).To(Equal(projectile.InFlight))
			Expect(manual.Pending()).To(Equal(1))
		})

		It("recomputes the preview", func() {
			before := sess.Snapshot().Impact
			store.SetGravity(1.62)
			Expect(sess.Snapshot().Impact.X).To(BeNumerically(">", before.X))
		})
	})

	Context("after Stop", func() {
		BeforeEach(func() {
			Expect(sess.Launch()).To(Succeed())
			manual.Advance(3)
			sess.Stop()
		})

		It("rejects commands", func() {
			Expect(sess.Launch()).To(MatchError(dynamo.ErrSessionClosed))
			Expect(sess.Reset()).To(MatchError(dynamo.ErrSessionClosed))
		})

		It("no longer mutates", func() {
			before := sess.Snapshot()
			store.SetVelocity(120)
			manual.Advance(10)
			Expect(sess.Snapshot()).To(Equal(before))
			Expect(manual.Pending()).To(BeZero())
		})

		It("can be stopped again", func() {
			Expect(sess.Stop).NotTo(Panic())
		})
	})

	It("falls back to the default step", func() {
		s := session.NewProjectile(store, manual, 0)
		defer s.Stop()
		Expect(s.Launch()).To(Succeed())
		manual.Advance(1)
		Expect(s.Snapshot().Elapsed).To(BeNumerically("~", projectile.TimeStep, 1e-9))
	})

	It("lands on a wall-clock ticker", func() {
		s := session.NewProjectile(store, scheduler.NewTicker(1000), 0.5)
		defer s.Stop()

		Expect(s.Launch()).To(Succeed())
		Eventually(func() projectile.Phase {
			return s.Snapshot().Phase
		}).WithTimeout(5 * time.Second).Should(Equal(projectile.Landed))
		Eventually(s.InFlight).Should(BeFalse())
	})
})
