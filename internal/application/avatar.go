package application

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	"image/png"
	"regexp"

	"golang.org/x/image/draw"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

const (
	DefaultAvatarMaxBytes = 1000000
	DefaultAvatarSize     = 250

	// maxSourcePixels bounds decoding of uploads that declare huge dimensions.
	maxSourcePixels = 40_000_000
)

// case-sensitive on purpose: "photo.PNG" is refused
var avatarExt = regexp.MustCompile(`\.(jpg|jpeg|png)$`)

var (
	errAvatarTooLarge = &RejectError{Reason: "File too large"}
	errAvatarType     = &RejectError{Reason: "File must be jpg, jpeg, or png format"}
	errAvatarDecode   = &RejectError{Reason: "Please upload a valid image"}
)

// AvatarPipeline checks uploads, resizes them to a fixed square PNG and
// stores the result on the user.
type AvatarPipeline struct {
	store    *IdentityStore
	maxBytes int
	size     int
}

// NewAvatarPipeline falls back to the default limits for non-positive values.
func NewAvatarPipeline(store *IdentityStore, maxBytes, size int) *AvatarPipeline {
	if maxBytes <= 0 {
		maxBytes = DefaultAvatarMaxBytes
	}
	if size <= 0 {
		size = DefaultAvatarSize
	}
	return &AvatarPipeline{store: store, maxBytes: maxBytes, size: size}
}

// MaxBytes is the largest upload Accept lets through.
func (p *AvatarPipeline) MaxBytes() int { return p.maxBytes }

// Accept enforces the size ceiling and the filename extension.
func (p *AvatarPipeline) Accept(data []byte, filename string) ([]byte, error) {
	if len(data) > p.maxBytes {
		return nil, errAvatarTooLarge
	}
	if !avatarExt.MatchString(filename) {
		return nil, errAvatarType
	}
	return data, nil
}

// Normalize decodes a JPEG or PNG and re-encodes it as a size×size PNG.
// The aspect ratio is not kept.
func (p *AvatarPipeline) Normalize(raw []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil || cfg.Width*cfg.Height > maxSourcePixels {
		return nil, errAvatarDecode
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errAvatarDecode
	}

	dst := image.NewRGBA(image.Rect(0, 0, p.size, p.size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, &StorageError{Op: "encode avatar", Err: err}
	}
	return buf.Bytes(), nil
}

// Apply stores a normalized image on u.
func (p *AvatarPipeline) Apply(ctx context.Context, u *entity.User, pngBuf []byte) error {
	u.Avatar = pngBuf
	return p.store.Save(ctx, u)
}

// Clear removes u's avatar.
func (p *AvatarPipeline) Clear(ctx context.Context, u *entity.User) error {
	u.Avatar = nil
	return p.store.Save(ctx, u)
}
