package application

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvatarPipeline_Accept(t *testing.T) {
	p := NewAvatarPipeline(nil, 0, 0)

	tests := []struct {
		name     string
		size     int
		filename string
		reason   string
	}{
		{"png under limit", 500_000, "me.png", ""},
		{"jpg", 10, "me.jpg", ""},
		{"jpeg", 10, "me.jpeg", ""},
		{"exactly at limit", 1_000_000, "me.png", ""},
		{"two megabytes", 2_000_000, "me.png", "File too large"},
		{"gif", 10, "me.gif", "File must be jpg, jpeg, or png format"},
		{"upper case extension", 10, "me.PNG", "File must be jpg, jpeg, or png format"},
		{"extension not last", 10, "me.png.exe", "File must be jpg, jpeg, or png format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]byte, tt.size)
			out, err := p.Accept(data, tt.filename)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Len(t, out, tt.size)
				return
			}
			var rej *RejectError
			require.True(t, errors.As(err, &rej))
			assert.Equal(t, tt.reason, rej.Reason)
		})
	}
}

func TestAvatarPipeline_NormalizeAlwaysSquarePNG(t *testing.T) {
	p := NewAvatarPipeline(nil, 0, 0)

	inputs := map[string][]byte{
		"wide png":   encodePNG(t, 400, 100),
		"small png":  encodePNG(t, 16, 16),
		"tall jpeg":  encodeJPEG(t, 50, 800),
		"large jpeg": encodeJPEG(t, 1200, 900),
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			out, err := p.Normalize(raw)
			require.NoError(t, err)

			cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, "png", format)
			assert.Equal(t, 250, cfg.Width)
			assert.Equal(t, 250, cfg.Height)
		})
	}
}

func TestAvatarPipeline_NormalizeRejectsGarbage(t *testing.T) {
	_, err := NewAvatarPipeline(nil, 0, 0).Normalize([]byte("definitely not an image"))

	var rej *RejectError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, "Please upload a valid image", rej.Reason)
}

func TestAvatarPipeline_ApplyAndClear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.store.Create(ctx, validUser())
	require.NoError(t, err)

	img, err := f.svc.Avatars.Normalize(encodePNG(t, 10, 10))
	require.NoError(t, err)
	require.NoError(t, f.svc.Avatars.Apply(ctx, u, img))

	stored, err := f.store.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, img, stored.Avatar)

	require.NoError(t, f.svc.Avatars.Clear(ctx, stored))
	stored, err = f.store.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasAvatar())
}
