package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"strings"
	"time"
	"unicode"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/bundasehat/screening-backend/internal/data/repos"
	types "github.com/bundasehat/screening-backend/internal/domain"
	"github.com/bundasehat/screening-backend/internal/platform/dbctx"
	"github.com/bundasehat/screening-backend/internal/platform/gcp"
	"github.com/bundasehat/screening-backend/internal/platform/logger"
)

const avatarSize = 512

// MaxAvatarUploadBytes bounds the raw image accepted by SetAvatar.
const MaxAvatarUploadBytes = 5 << 20

var avatarPalette = []color.NRGBA{
	{R: 0xE5, G: 0x73, B: 0x73, A: 0xFF},
	{R: 0xF0, G: 0x62, B: 0x92, A: 0xFF},
	{R: 0xBA, G: 0x68, B: 0xC8, A: 0xFF},
	{R: 0x79, G: 0x86, B: 0xCB, A: 0xFF},
	{R: 0x4F, G: 0xC3, B: 0xF7, A: 0xFF},
	{R: 0x4D, G: 0xB6, B: 0xAC, A: 0xFF},
	{R: 0x81, G: 0xC7, B: 0x84, A: 0xFF},
	{R: 0xFF, G: 0xB7, B: 0x4D, A: 0xFF},
	{R: 0xA1, G: 0x88, B: 0x7F, A: 0xFF},
}

type AvatarService interface {
	// Generate renders the initials avatar for user as PNG.
	Generate(user *types.User) (*bytes.Buffer, error)
	// UploadInitials stores a generated avatar and points the user at it.
	UploadInitials(ctx context.Context, user *types.User) error
	// UploadImage crops raw to a circle and stores it as the user's avatar.
	UploadImage(ctx context.Context, user *types.User, raw []byte) error
}

type avatarService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
	bucket   gcp.BucketService
	fontFace font.Face
	now      func() time.Time
}

// NewAvatarService accepts a nil bucket; uploads then fail with a clear error
// and callers treat the avatar as optional.
func NewAvatarService(log *logger.Logger, userRepo repos.UserRepo, bucket gcp.BucketService) (AvatarService, error) {
	face, err := loadFontFace(goregular.TTF, 206)
	if err != nil {
		return nil, err
	}
	return &avatarService{
		log:      log.With("service", "AvatarService"),
		userRepo: userRepo,
		bucket:   bucket,
		fontFace: face,
		now:      time.Now,
	}, nil
}

func (as *avatarService) Generate(user *types.User) (*bytes.Buffer, error) {
	dc := gg.NewContext(avatarSize, avatarSize)
	half := float64(avatarSize) / 2
	dc.DrawCircle(half, half, half)
	dc.Clip()

	dc.SetColor(avatarColor(user.ID.String()))
	dc.DrawRectangle(0, 0, avatarSize, avatarSize)
	dc.Fill()

	dc.SetFontFace(as.fontFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(initials(user.Name), half, half, 0.5, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode avatar png: %w", err)
	}
	return &buf, nil
}

func (as *avatarService) UploadInitials(ctx context.Context, user *types.User) error {
	buf, err := as.Generate(user)
	if err != nil {
		return err
	}
	return as.store(ctx, user, buf)
}

func (as *avatarService) UploadImage(ctx context.Context, user *types.User, raw []byte) error {
	if len(raw) > MaxAvatarUploadBytes {
		return invalid("avatar_too_large", "avatar must be at most %d bytes", MaxAvatarUploadBytes)
	}
	buf, err := circleCrop(raw, avatarSize)
	if err != nil {
		return invalid("invalid_image", "%v", err)
	}
	return as.store(ctx, user, buf)
}

func (as *avatarService) store(ctx context.Context, user *types.User, buf *bytes.Buffer) error {
	if as.bucket == nil || !as.bucket.HasCategory(gcp.BucketCategoryAvatar) {
		return fmt.Errorf("avatar storage not configured")
	}
	oldKey := strings.TrimSpace(user.AvatarBucketKey)
	// Versioned keys so CDNs never serve a stale image.
	newKey := fmt.Sprintf("%s%d.png", avatarPrefix(user), as.now().UnixNano())

	dbc := dbctx.Context{Ctx: ctx}
	if err := as.bucket.UploadFile(dbc, gcp.BucketCategoryAvatar, newKey, bytes.NewReader(buf.Bytes())); err != nil {
		return fmt.Errorf("upload avatar: %w", err)
	}
	url := as.bucket.GetPublicURL(gcp.BucketCategoryAvatar, newKey)
	if err := as.userRepo.UpdateAvatarFields(dbc, user.ID, newKey, url); err != nil {
		return fmt.Errorf("save avatar fields: %w", err)
	}
	user.AvatarBucketKey = newKey
	user.AvatarURL = url

	if oldKey != "" && oldKey != newKey {
		if err := as.bucket.DeleteFile(dbc, gcp.BucketCategoryAvatar, oldKey); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "old_key", oldKey, "error", err)
		}
	}
	return nil
}

func avatarPrefix(user *types.User) string {
	return "user/" + user.ID.String() + "/"
}

func avatarColor(seed string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(seed))
	return avatarPalette[h.Sum32()%uint32(len(avatarPalette))]
}

// initials takes the first letter of the first two words of name.
func initials(name string) string {
	var out []rune
	for _, w := range strings.Fields(name) {
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				out = append(out, unicode.ToUpper(r))
				break
			}
		}
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

func circleCrop(raw []byte, size int) (*bytes.Buffer, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	origin := image.Point{X: b.Min.X + (b.Dx()-side)/2, Y: b.Min.Y + (b.Dy()-side)/2}
	cropped := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(cropped, cropped.Bounds(), img, origin, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	var out bytes.Buffer
	if err := dc.EncodePNG(&out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &out, nil
}

func loadFontFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse avatar font: %w", err)
	}
	return truetype.NewFace(parsed, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
