package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePNG encodes img into dir/name and returns the path.
func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// createTestImage writes a uniform PNG into a test temp dir.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	return writePNG(t, t.TempDir(), "uniform.png", createInMemoryImage(width, height, c))
}

func TestNewImageCache(t *testing.T) {
	cache := NewImageCache(0)
	require.NotNil(t, cache)
	assert.Equal(t, 0, cache.Len())
}

func TestImageCache_Load(t *testing.T) {
	path := createTestImage(t, 100, 50, color.RGBA{255, 0, 0, 255})
	cache := NewImageCache(0)

	img, err := cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
	assert.Equal(t, 1, cache.Len())

	again, err := cache.Load(path)
	require.NoError(t, err)
	assert.True(t, img == again, "second load should hit the cache")
}

func TestImageCache_Load_NonExistent(t *testing.T) {
	_, err := NewImageCache(0).Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))

	_, err := NewImageCache(0).Load(path)
	assert.ErrorContains(t, err, "failed to decode image")
}

func TestImageCache_ClearAndEvict(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", createInMemoryImage(4, 4, color.White))
	b := writePNG(t, dir, "b.png", createInMemoryImage(4, 4, color.Black))

	cache := NewImageCache(0)
	_, err := cache.Load(a)
	require.NoError(t, err)
	_, err = cache.Load(b)
	require.NoError(t, err)
	require.Equal(t, 2, cache.Len())

	cache.Evict(a)
	assert.Equal(t, 1, cache.Len())
	cache.Evict("never-loaded.png")
	assert.Equal(t, 1, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}

func TestImageCache_DropsLeastRecentlyUsed(t *testing.T) {
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", createInMemoryImage(4, 4, color.White))
	b := writePNG(t, dir, "b.png", createInMemoryImage(4, 4, color.Black))
	c := writePNG(t, dir, "c.png", createInMemoryImage(4, 4, color.Gray{Y: 128}))

	cache := NewImageCache(2)
	first, err := cache.Load(a)
	require.NoError(t, err)
	_, err = cache.Load(b)
	require.NoError(t, err)
	_, err = cache.Load(c)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	again, err := cache.Load(a)
	require.NoError(t, err)
	assert.False(t, first == again, "a should have been evicted and decoded again")
	assert.Equal(t, 2, cache.Len())
}

func TestImageCache_ReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "wall.png", createInMemoryImage(4, 4, color.White))

	cache := NewImageCache(0)
	before, err := cache.Load(path)
	require.NoError(t, err)

	writePNG(t, dir, "wall.png", createInMemoryImage(6, 3, color.Black))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	after, err := cache.Load(path)
	require.NoError(t, err)
	assert.False(t, before == after, "changed file should not be served from the cache")
	assert.Equal(t, 6, after.Bounds().Dx())
	assert.Equal(t, 1, cache.Len())
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	path := createTestImage(t, 20, 20, color.RGBA{0, 0, 255, 255})
	cache := NewImageCache(0)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent load failed: %v", err)
	}
	assert.Equal(t, 1, cache.Len())
}

func TestLoadImageInfo(t *testing.T) {
	path := createTestImage(t, 64, 48, color.RGBA{10, 20, 30, 255})

	info, err := LoadImageInfo(NewImageCache(0), path)
	require.NoError(t, err)
	assert.Equal(t, 64, info.Width)
	assert.Equal(t, 48, info.Height)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, "8-bit", info.ColorDepth)
	assert.Positive(t, info.FileSizeBytes)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"room.png":     "png",
		"room.JPG":     "jpeg",
		"room.jpeg":    "jpeg",
		"room.gif":     "gif",
		"room.bmp":     "bmp",
		"room.tif":     "tiff",
		"room.webp":    "webp",
		"room.heic":    "unknown",
		"no-extension": "unknown",
	}
	for path, want := range tests {
		assert.Equal(t, want, formatFromPath(path), path)
	}
}

func TestGetDimensions(t *testing.T) {
	path := createTestImage(t, 33, 17, color.White)

	dims, err := GetDimensions(NewImageCache(0), path)
	require.NoError(t, err)
	assert.Equal(t, &DimensionsResult{Width: 33, Height: 17}, dims)

	_, err = GetDimensions(NewImageCache(0), filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
