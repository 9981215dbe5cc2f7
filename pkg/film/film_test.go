package film

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arclight-render/arclight/pkg/core"
)

func TestAddSampleAverages(t *testing.T) {
	f := New(4, 4)
	f.AddSample(1, 1, core.NewVec3(1, 0, 0))
	f.AddSample(1, 1, core.NewVec3(0, 1, 0))

	c := f.Pixel(1, 1)
	assert.InDelta(t, 0.5, c.X, 1e-12)
	assert.InDelta(t, 0.5, c.Y, 1e-12)
}

func TestAddLightSampleNormalizesByGlobalCount(t *testing.T) {
	f := New(2, 2)
	f.AddLightSample(0, 0, core.NewVec3(4, 4, 4))
	f.AddLightSampleCount(4)

	c := f.Pixel(0, 0)
	assert.InDelta(t, 1.0, c.X, 1e-12)
}

func TestAddLightSampleConcurrentWritesDontLoseUpdates(t *testing.T) {
	f := New(1, 1)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.AddLightSample(0, 0, core.NewVec3(1, 1, 1))
		}()
	}
	wg.Wait()
	f.AddLightSampleCount(1)

	c := f.Pixel(0, 0)
	assert.InDelta(t, 100.0, c.X, 1e-9)
}

func TestWritePPMHeader(t *testing.T) {
	f := New(3, 2)
	var buf bytes.Buffer
	err := f.WritePPM(&buf)
	assert.NoError(t, err)
	assert.Contains(t, buf.String()[:11], "P6\n3 2\n255")
}

func TestWriteRaw32Length(t *testing.T) {
	f := New(2, 2)
	var buf bytes.Buffer
	err := f.WriteRaw32(&buf)
	assert.NoError(t, err)
	assert.Equal(t, 2*2*3*4, buf.Len())
}
