// Package scene holds the sales story: four scenes, the navigator that moves
// between them and the renderers that draw them.
//
//   - [Navigator]: owns the current index and the [dom.Host]; every
//     transition clears the host and runs one full render pass
//   - [Story]: builds the four [Scene] values from the loaded data
//   - [Explorer]: scene 4's filter component with its scatter plot and tooltip
//
// Renderers are split in two steps. A Build function turns records into a
// chart value holding scales and pixel geometry, and the chart's Draw method
// writes elements. Tests check the geometry without parsing markup.
//
// # Thread Safety
//
// Navigator methods are safe to call from several goroutines. Each call runs
// its render pass under the navigator's lock. Charts and the Explorer are
// not thread-safe on their own.
package scene
