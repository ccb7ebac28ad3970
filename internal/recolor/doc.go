// Package recolor implements the mask-guided perceptual recoloring transform.
//
// Given a photograph, a mask marking a surface (typically a wall) and a target
// color, Recolor replaces the surface's hue and chroma with the target's while
// keeping the photograph's own lightness. Shadows, highlights and texture
// survive because only the chrominance channels move.
//
// # Pipeline
//
// The transform is a straight pipeline of three pure stages:
//
//  1. Transcode: sRGB (8-bit) to CIE L*a*b* (D65), see ToLabImage.
//  2. Condition: the raw mask becomes feathered weights in [0,1], see Condition.
//  3. Blend: L is copied, a/b move toward the target by m*s, see Blend.
//
// The blended Lab image is transcoded back to sRGB with per-channel clipping.
//
// # Feathering
//
// The feather radius is the half-width of a separable Gaussian kernel in
// pixels; sigma is radius/3. Borders use reflect-101 (mirror without repeating
// the edge sample). The default radius of 3.6 gives sigma 1.2 over 9 taps.
//
// # Concurrency
//
// Nothing in this package holds state between calls and inputs are never
// mutated. Rows are processed in parallel with bild's parallel.Line; the result
// does not depend on the scheduling. Callers needing deadlines must bound image
// size or wrap the call, the transform itself is not interruptible.
package recolor
