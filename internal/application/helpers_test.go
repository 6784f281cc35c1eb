package application

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"sync"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-task-manager/internal/infrastructure/memory"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

type sentMail struct {
	Kind, Email, Name string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMail
}

func (n *recordingNotifier) Welcome(_ context.Context, email, name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{"welcome", email, name})
}

func (n *recordingNotifier) Cancellation(_ context.Context, email, name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{"cancellation", email, name})
}

type fixture struct {
	svc   *Service
	mem   *memory.Store
	mail  *recordingNotifier
	store *IdentityStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	mem := memory.NewStore()
	store := NewIdentityStore(mem.Users(), mem.Tasks(), mem, helpers.NewHasher(bcrypt.MinCost), logger)
	mail := &recordingNotifier{}
	svc := NewService(store, NewAvatarPipeline(store, 0, 0), mem.Tasks(), helpers.NewJWTManager("thisismysecret"), mail, logger)
	return &fixture{svc: svc, mem: mem, mail: mail, store: store}
}

func validUser() NewUser {
	return NewUser{Name: "Ann", Email: "a@x.com", Password: "longpass1", Age: 30}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}
