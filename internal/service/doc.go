// Package service runs the paint preview pipeline.
//
// A render takes a room photo and a drawn wall mask (data URLs or file paths)
// plus a paint color, and produces an encoded preview:
//
//	decode photo ─┐
//	              ├─> bound size ─> rasterize mask ─> recolor ─> encode ─> name
//	decode mask  ─┘
//
// Photo and mask are decoded concurrently. The context is checked between
// stages; the recoloring itself runs to completion once started.
//
// Service is safe for concurrent use.
package service
