package projectile_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/physlab/internal/kinematics"
	"github.com/san-kum/physlab/internal/projectile"
)

var earth = kinematics.Params{V0: 50, AngleDeg: 45, G: 9.81}

func flyToGround(r *projectile.Run) int {
	ticks := 0
	for r.Tick(projectile.TimeStep) {
		ticks++
		Expect(ticks).To(BeNumerically("<", 10000))
	}
	return ticks + 1
}

var _ = Describe("Run", func() {
	var r *projectile.Run

	BeforeEach(func() {
		r = projectile.NewRun(earth)
	})

	It("starts idle at elapsed zero with a preview", func() {
		s := r.Snapshot()
		Expect(s.Phase).To(Equal(projectile.Idle))
		Expect(s.Elapsed).To(BeZero())
		Expect(s.Position).To(Equal(kinematics.Point{}))
		Expect(s.Preview).NotTo(BeEmpty())
		Expect(s.Relaunch()).To(BeFalse())
	})

	It("ignores ticks while idle", func() {
		Expect(r.Tick(projectile.TimeStep)).To(BeFalse())
		Expect(r.State()).To(Equal(projectile.State{Phase: projectile.Idle}))
	})

	Describe("a flight", func() {
		BeforeEach(func() {
			Expect(r.Launch()).To(Succeed())
		})

		It("advances elapsed monotonically while in flight", func() {
			last := 0.0
			for i := 0; i < 20; i++ {
				Expect(r.Tick(projectile.TimeStep)).To(BeTrue())
				Expect(r.State().Elapsed).To(BeNumerically(">", last))
				last = r.State().Elapsed
			}
			Expect(r.State().Phase).To(Equal(projectile.InFlight))
		})

		It("lands and snaps to the analytic impact point", func() {
			ticks := flyToGround(r)
			s := r.Snapshot()

			Expect(s.Phase).To(Equal(projectile.Landed))
			Expect(ticks).To(Equal(91))
			Expect(s.Elapsed).To(BeNumerically(">=", s.FlightTime))
			Expect(s.Elapsed - s.FlightTime).To(BeNumerically("<", projectile.TimeStep))

			rng, err := r.Trajectory().Range()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Position.X).To(BeNumerically("~", rng, 1e-9))
			Expect(s.Position.Y).To(BeZero())
			Expect(s.Impact).To(Equal(s.Position))
			Expect(s.Relaunch()).To(BeTrue())
		})

		It("stays landed on further ticks", func() {
			flyToGround(r)
			landed := r.State()
			Expect(r.Tick(projectile.TimeStep)).To(BeFalse())
			Expect(r.State()).To(Equal(landed))
		})

		It("relaunches from landed with a fresh clock", func() {
			flyToGround(r)
			Expect(r.Launch()).To(Succeed())
			Expect(r.State()).To(Equal(projectile.State{Phase: projectile.InFlight}))
		})

		It("resets to idle from any point", func() {
			for i := 0; i < 7; i++ {
				r.Tick(projectile.TimeStep)
			}
			r.Reset()
			Expect(r.State()).To(Equal(projectile.State{Phase: projectile.Idle}))
			Expect(r.Snapshot().Clock()).To(Equal("T+0.00s"))
		})

		It("keeps the indicator at a fixed length", func() {
			r.Tick(projectile.TimeStep)
			Expect(r.Snapshot().Indicator.Norm()).To(BeNumerically("~", projectile.IndicatorLength, 1e-9))
		})
	})

	Describe("parameter changes", func() {
		It("resets a flight in progress", func() {
			Expect(r.Launch()).To(Succeed())
			r.Tick(projectile.TimeStep)
			r.Tick(projectile.TimeStep)

			changed := earth
			changed.AngleDeg = 60
			Expect(r.SetParams(changed)).To(BeTrue())

			s := r.Snapshot()
			Expect(s.Phase).To(Equal(projectile.Idle))
			Expect(s.Elapsed).To(BeZero())
			Expect(s.Params.AngleDeg).To(Equal(60.0))
		})

		It("recomputes the preview without launching", func() {
			before := r.Snapshot().Preview
			changed := earth
			changed.V0 = 80
			r.SetParams(changed)

			s := r.Snapshot()
			Expect(s.Phase).To(Equal(projectile.Idle))
			Expect(len(s.Preview)).To(BeNumerically(">", len(before)))
		})

		It("reports unchanged parameters", func() {
			Expect(r.Launch()).To(Succeed())
			r.Tick(projectile.TimeStep)
			Expect(r.SetParams(earth)).To(BeFalse())
			Expect(r.State().Phase).To(Equal(projectile.InFlight))
		})
	})

	Describe("degenerate parameters", func() {
		DescribeTable("refuse to fly",
			func(p kinematics.Params) {
				r.SetParams(p)
				Expect(r.Launch()).To(MatchError(ContainSubstring("degenerate trajectory")))
				Expect(r.Tick(projectile.TimeStep)).To(BeFalse())

				s := r.Snapshot()
				Expect(s.Phase).To(Equal(projectile.Idle))
				Expect(s.Elapsed).To(BeZero())
				Expect(s.Degenerate).To(BeTrue())
				Expect(s.Preview).To(BeEmpty())
				Expect(s.Position.IsValid()).To(BeTrue())
			},
			Entry("zero gravity", kinematics.Params{V0: 50, AngleDeg: 45, G: 0}),
			Entry("negative gravity", kinematics.Params{V0: 50, AngleDeg: 45, G: -1}),
			Entry("zero velocity", kinematics.Params{V0: 0, AngleDeg: 45, G: 9.81}),
		)
	})

	It("serialises phases by name", func() {
		data, err := json.Marshal(r.Snapshot())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"phase":"idle"`))

		var s projectile.Snapshot
		Expect(json.Unmarshal(data, &s)).To(Succeed())
		Expect(s.Phase).To(Equal(projectile.Idle))
	})
})
