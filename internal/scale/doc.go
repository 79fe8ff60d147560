// Package scale maps data values to pixel positions.
//
//   - [Linear]: continuous domain to continuous range, with [Linear.Nice] and
//     [Linear.Ticks] for round axis bounds
//   - [Band]: ordered categories to evenly spaced bands with padding
//   - [Ordinal]: categories to palette colors, stable per key
//
// Scales never fail. An empty or zero-width domain collapses to the middle
// of the range and NaN inputs map to NaN.
package scale
