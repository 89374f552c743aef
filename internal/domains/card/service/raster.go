package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"

	"vcard-backend/internal/domains/card/model"
)

// Card layout (px)
const (
	cardWidth    = 600
	cardHeight   = 960
	cardPadding  = 40
	photoSize    = 192
	qrDrawSize   = 200
	logoSize     = 32
	maxPhotoSize = 10 << 20
)

var (
	colorBackground = color.RGBA{R: 0xf9, G: 0xfa, B: 0xfb, A: 0xff}
	colorTitle      = color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xff}
	colorBody       = color.RGBA{R: 0x37, G: 0x41, B: 0x51, A: 0xff}
	colorMuted      = color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
	colorLink       = color.RGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}
	colorRule       = color.RGBA{R: 0xd1, G: 0xd5, B: 0xdb, A: 0xff}
)

// CardRasterizer vẽ card subtree thành PNG
type CardRasterizer interface {
	Raster(ctx context.Context, view *model.CardView) ([]byte, error)
}

// Rasterizer vẽ card trực tiếp bằng imaging + x/image/font
type Rasterizer struct {
	client      *http.Client
	placeholder []byte
	regular     *opentype.Font
	bold        *opentype.Font
}

var _ CardRasterizer = (*Rasterizer)(nil)

// NewRasterizer nhận bytes của placeholder/logo (PNG) và timeout khi tải ảnh
func NewRasterizer(placeholder []byte, photoTimeout time.Duration) (*Rasterizer, error) {
	if _, _, err := image.DecodeConfig(bytes.NewReader(placeholder)); err != nil {
		return nil, fmt.Errorf("placeholder is not an image: %w", err)
	}

	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	return &Rasterizer{
		client:      &http.Client{Timeout: photoTimeout},
		placeholder: placeholder,
		regular:     regular,
		bold:        bold,
	}, nil
}

type cardImages struct {
	photo image.Image
	qr    image.Image
	logo  image.Image
}

// Raster chờ mọi image resource về trạng thái cuối (loaded hoặc failed) rồi mới vẽ
// Photo lỗi được thay bằng placeholder, QR hoặc logo lỗi thì raster thất bại
func (r *Rasterizer) Raster(ctx context.Context, view *model.CardView) ([]byte, error) {
	if view == nil || !view.Found || view.Card == nil {
		return nil, model.NewCardNotFound("requested email")
	}
	card := view.Card

	imgs, err := r.loadImages(ctx, card)
	if err != nil {
		return nil, model.NewRenderFailed(err)
	}

	canvas, err := r.draw(card, view.Footer, imgs)
	if err != nil {
		return nil, model.NewRenderFailed(err)
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, canvas, imaging.PNG); err != nil {
		return nil, model.NewRenderFailed(err)
	}
	return buf.Bytes(), nil
}

func (r *Rasterizer) loadImages(ctx context.Context, card *model.Card) (*cardImages, error) {
	imgs := &cardImages{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		photo, err := r.fetchPhoto(gctx, card.Photo.URL)
		if err != nil {
			log.Warn().Err(err).
				Str("employee_id", card.EmployeeID).
				Str("photo_url", card.Photo.URL).
				Msg("photo unavailable, using placeholder")
			photo, err = decodeImage(r.placeholder)
			if err != nil {
				return fmt.Errorf("decode placeholder: %w", err)
			}
		}
		imgs.photo = photo
		return nil
	})

	g.Go(func() error {
		qr, err := decodeImage(card.QR.PNG)
		if err != nil {
			return fmt.Errorf("decode qr: %w", err)
		}
		imgs.qr = qr
		return nil
	})

	g.Go(func() error {
		logo, err := decodeImage(r.placeholder)
		if err != nil {
			return fmt.Errorf("decode logo: %w", err)
		}
		imgs.logo = logo
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return imgs, nil
}

// fetchPhoto chỉ tải URL tuyệt đối http(s), path tương đối (placeholder) trả lỗi để dùng bytes nhúng sẵn
func (r *Rasterizer) fetchPhoto(ctx context.Context, url string) (image.Image, error) {
	lower := strings.ToLower(url)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return nil, fmt.Errorf("not a remote photo: %q", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photo returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoSize))
	if err != nil {
		return nil, err
	}
	return decodeImage(data)
}

func decodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// ========================================
// DRAWING
// ========================================

type faces struct {
	name   font.Face
	title  font.Face
	body   font.Face
	small  font.Face
	footer font.Face
}

// newFaces tạo faces cho mỗi lần vẽ, opentype.Face không dùng chung giữa goroutines được
func (r *Rasterizer) newFaces() (*faces, error) {
	mk := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	}

	var (
		fs  faces
		err error
	)
	if fs.name, err = mk(r.bold, 34); err != nil {
		return nil, err
	}
	if fs.title, err = mk(r.regular, 21); err != nil {
		return nil, err
	}
	if fs.body, err = mk(r.regular, 19); err != nil {
		return nil, err
	}
	if fs.small, err = mk(r.regular, 15); err != nil {
		return nil, err
	}
	if fs.footer, err = mk(r.regular, 13); err != nil {
		return nil, err
	}
	return &fs, nil
}

func (fs *faces) Close() {
	for _, f := range []font.Face{fs.name, fs.title, fs.body, fs.small, fs.footer} {
		if f != nil {
			f.Close()
		}
	}
}

func (r *Rasterizer) draw(card *model.Card, footer model.Footer, imgs *cardImages) (image.Image, error) {
	fs, err := r.newFaces()
	if err != nil {
		return nil, err
	}
	defer fs.Close()

	canvas := imaging.New(cardWidth, cardHeight, color.White)
	bg := imaging.New(cardWidth, cardHeight/3, colorBackground)
	canvas = imaging.Paste(canvas, bg, image.Pt(0, 0))

	// Photo tròn
	photo := imaging.Fill(imgs.photo, photoSize, photoSize, imaging.Center, imaging.Lanczos)
	photoRect := image.Rect((cardWidth-photoSize)/2, cardPadding, (cardWidth+photoSize)/2, cardPadding+photoSize)
	draw.DrawMask(canvas, photoRect, photo, image.Point{}, circle{r: photoSize / 2}, image.Point{}, draw.Over)

	y := photoRect.Max.Y + 56
	y = drawCentered(canvas, fs.name, colorTitle, card.FullName, y, 10)
	y = drawCentered(canvas, fs.title, colorBody, card.Designation, y, 6)
	y = drawCentered(canvas, fs.title, colorMuted, card.Company, y, 28)

	y = drawCentered(canvas, fs.body, colorBody, card.Phone.Display, y, 8)
	y = drawCentered(canvas, fs.body, colorBody, card.Email.Display, y, 8)
	for _, line := range wrapText(fs.body, card.Address, cardWidth-2*cardPadding) {
		y = drawCentered(canvas, fs.body, colorBody, line, y, 8)
	}
	y = drawCentered(canvas, fs.body, colorLink, card.Website.Display, y, 24)

	qr := imaging.Resize(imgs.qr, qrDrawSize, qrDrawSize, imaging.NearestNeighbor)
	canvas = imaging.Paste(canvas, qr, image.Pt((cardWidth-qrDrawSize)/2, y))
	y += qrDrawSize + 24
	drawCentered(canvas, fs.small, colorMuted, "Scan to open this card", y, 0)

	// Footer
	ruleY := cardHeight - 96
	canvas = imaging.Paste(canvas, imaging.New(cardWidth-2*cardPadding, 1, colorRule), image.Pt(cardPadding, ruleY))

	logo := imaging.Fit(imgs.logo, logoSize, logoSize, imaging.Lanczos)
	lines := []string{footer.CompanyName, footer.Email.Display, footer.Website.Display}
	textWidth := 0
	for _, l := range lines {
		if w := font.MeasureString(fs.footer, l).Ceil(); w > textWidth {
			textWidth = w
		}
	}
	left := (cardWidth - (logoSize + 10 + textWidth)) / 2
	canvas = imaging.Overlay(canvas, logo, image.Pt(left, ruleY+24), 1.0)

	ty := ruleY + 28
	for i, l := range lines {
		c := colorMuted
		if i > 0 {
			c = colorLink
		}
		drawText(canvas, fs.footer, c, l, left+logoSize+10, ty)
		ty += 18
	}

	return canvas, nil
}

// drawCentered vẽ text canh giữa tại baseline y, trả baseline của dòng tiếp theo
func drawCentered(dst draw.Image, face font.Face, c color.Color, text string, y, gap int) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return y
	}
	width := font.MeasureString(face, text).Ceil()
	drawText(dst, face, c, text, (cardWidth-width)/2, y)
	return y + face.Metrics().Height.Ceil() + gap
}

func drawText(dst draw.Image, face font.Face, c color.Color, text string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// wrapText tách text thành các dòng không rộng quá maxWidth
func wrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if font.MeasureString(face, candidate).Ceil() > maxWidth {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	return append(lines, line)
}

// circle là alpha mask hình tròn bán kính r
type circle struct {
	r int
}

func (c circle) ColorModel() color.Model { return color.AlphaModel }

func (c circle) Bounds() image.Rectangle { return image.Rect(0, 0, 2*c.r, 2*c.r) }

func (c circle) At(x, y int) color.Color {
	dx := float64(x-c.r) + 0.5
	dy := float64(y-c.r) + 0.5
	if dx*dx+dy*dy <= float64(c.r*c.r) {
		return color.Alpha{A: 0xff}
	}
	return color.Alpha{}
}
