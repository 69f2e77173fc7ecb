// Package blur provides a parallel, multi-pass box blur for RGBA pixel
// buffers.
//
// # Overview
//
// A blur is a number of rounds, each a horizontal pass followed by a
// vertical pass over the whole image. Every pass is split into stripes of
// rows or columns that run concurrently on a fixed worker pool, and a pass
// starts only after all stripes of the previous one have finished. Repeated
// box passes approximate a Gaussian blur.
//
// # Quick Start
//
//	import "github.com/gogpu/blur"
//
//	buf, _ := blur.FromImage(img)
//
//	c := blur.New()
//	c.Prepare(buf, 12)   // radius, clamped into [MinRadius, MaxRadius]
//	c.SetBlurRounds(3)   // clamped into [MinRounds, MaxRounds]
//	c.Blur(buf, buf)     // in place
//
//	buf.SavePNG("blurred.png")
//
// # Worker Pools
//
// Coordinators created without WithPool share a process-wide pool
// (SharedPool). Applications that want to control the pool's lifetime
// create one with NewWorkerPool, pass it to each coordinator with WithPool
// and call Shutdown when done.
//
// # Failure Model
//
// Blur has no error return. Missing or released buffers, a pool that was
// shut down and concurrent calls on a busy coordinator are dropped silently.
// A panicking stripe leaves its lines unblurred for that pass. Use SetLogger
// with a debug-level handler and Coordinator.Stats to observe these cases.
//
// # Radius Ceiling
//
// Two radius ceilings are in use: MaxRadiusCompact (25) and
// MaxRadiusExtended (100). Coordinators clamp to DefaultMaxRadius, the compact
// one, unless WithMaxRadius selects another. Pick the ceiling per product;
// larger radii cost proportionally more only in the window setup, not per
// pixel.
//
// # Kernels
//
// BoxKernel truncates the averaging window at image edges. StackKernel
// weights neighbours by distance and replicates edge pixels. Both are
// deterministic and independent of the number of stripes.
//
// The transform subpackage builds a complete downsample, blur, upscale and
// overlay pipeline for image.Image values on top of this package.
package blur
