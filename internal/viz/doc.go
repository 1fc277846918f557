// Package viz renders the simulations in the terminal.
//
// [App] is a Bubble Tea program that shows the thermal plate as a colour
// heatmap next to a Braille [Canvas] of the projectile's flight. It only
// reads session snapshots and issues session commands.
//
// # Key Bindings
//
//	Space      - Launch / re-launch
//	R          - Reset projectile
//	Mouse drag - Add heat under the pointer
//	C          - Clear the plate
//	P          - Pause diffusion
//	Tab        - Select parameter
//	Arrows     - Adjust parameter
//	T          - Cycle color themes
//	?          - Show help
package viz
