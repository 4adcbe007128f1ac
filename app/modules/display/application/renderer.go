package displayservice

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	leaderboardservice "github.com/Black-And-White-Club/pga-leaderboard/app/modules/leaderboard/application"
	"golang.org/x/image/font"
)

const (
	headerMaxChars = 32
	nameMaxChars   = 12
	highlightRows  = 3
	rowsTop        = 10
	marginX        = 2
	logoGap        = 2
	segmentGap     = "   "
	previousPrefix = "PREV: "
)

var errorColor = color.RGBA{R: 255, A: 255}

// Renderer draws panel frames. It holds no mutable state of its own.
type Renderer struct {
	Width     int
	Height    int
	Face      font.Face
	FontSize  int
	Logo      image.Image
	Text      color.RGBA
	Highlight color.RGBA
}

// Title is the tournament header text.
func Title(snap leaderboardservice.Snapshot) string {
	if snap.Tournament == nil {
		return ""
	}
	if snap.IsPrevious {
		return previousPrefix + snap.Tournament.Name
	}
	return snap.Tournament.Name
}

// PlayerLine formats one leaderboard row.
func PlayerLine(p leaderboardservice.Player, maxName int) string {
	name := p.ShortName
	if maxName > 0 {
		name = Truncate(name, maxName)
	}
	return fmt.Sprintf("%s. %s %s", p.Position, name, p.Score)
}

func (r *Renderer) rowColor(i int) color.RGBA {
	if i < highlightRows {
		return r.Highlight
	}
	return r.Text
}

// LineHeight is the row pitch of the static layout.
func (r *Renderer) LineHeight() int {
	return r.FontSize + 2
}

// VisibleRows is how many leaderboard rows fit under the header.
func (r *Renderer) VisibleRows(players int) int {
	lh := r.LineHeight()
	if lh <= 0 {
		return 0
	}
	return max(0, min(players, (r.Height-rowsTop-2)/lh))
}

// Static draws the header and as many rows as fit.
func (r *Renderer) Static(snap leaderboardservice.Snapshot) *image.RGBA {
	img := newCanvas(r.Width, r.Height)
	drawText(img, r.Face, marginX, 1, Truncate(Title(snap), headerMaxChars), r.Text)

	for i := 0; i < r.VisibleRows(len(snap.Players)); i++ {
		y := rowsTop + i*r.LineHeight()
		drawText(img, r.Face, marginX, y, PlayerLine(snap.Players[i], nameMaxChars), r.rowColor(i))
	}
	return img
}

// NoData is shown when there is no tournament to display.
func (r *Renderer) NoData() *image.RGBA {
	return r.centred("No PGA Tour", "tournaments", r.Text)
}

// Error is shown when rendering failed.
func (r *Renderer) Error() *image.RGBA {
	return r.centred("Error loading", "leaderboard", errorColor)
}

func (r *Renderer) centred(first, second string, c color.Color) *image.RGBA {
	img := newCanvas(r.Width, r.Height)
	y1 := r.Height/2 - r.FontSize - 2
	y2 := r.Height/2 + 2
	drawText(img, r.Face, (r.Width-textWidth(r.Face, first))/2, y1, first, c)
	drawText(img, r.Face, (r.Width-textWidth(r.Face, second))/2, y2, second, c)
	return img
}

// LogoFits reports whether the logo leaves at least a quarter of the panel
// for text. A logo that does not fit is not drawn.
func (r *Renderer) LogoFits() bool {
	if r.Logo == nil {
		return false
	}
	return r.Width-r.Logo.Bounds().Dx()-logoGap >= r.Width/4
}

// logoWidth is the horizontal space reserved for the logo.
func (r *Renderer) logoWidth() int {
	if !r.LogoFits() {
		return 0
	}
	return r.Logo.Bounds().Dx() + logoGap
}

// ScrollArea is the width the strip scrolls through.
func (r *Renderer) ScrollArea() int {
	return max(1, r.Width-r.logoWidth())
}

type segment struct {
	text  string
	color color.RGBA
}

// Strip renders the ticker: the title followed by every player, then a blank
// gap as wide as the scroll area.
func (r *Renderer) Strip(snap leaderboardservice.Snapshot) *image.RGBA {
	segments := []segment{{text: Title(snap), color: r.Text}}
	for i, p := range snap.Players {
		segments = append(segments, segment{text: PlayerLine(p, 0), color: r.rowColor(i)})
	}

	gap := textWidth(r.Face, segmentGap)
	width := 0
	for i, seg := range segments {
		if i > 0 {
			width += gap
		}
		width += textWidth(r.Face, seg.text)
	}
	width += r.ScrollArea()

	strip := newCanvas(width, r.Height)
	top := (r.Height - lineHeight(r.Face)) / 2
	x := 0
	for i, seg := range segments {
		if i > 0 {
			x += gap
		}
		drawText(strip, r.Face, x, top, seg.text, seg.color)
		x += textWidth(r.Face, seg.text)
	}
	return strip
}

// ScrollFrame crops strip at offset with wrap-around and places the logo on
// the left.
func (r *Renderer) ScrollFrame(strip *image.RGBA, offset int) *image.RGBA {
	img := newCanvas(r.Width, r.Height)
	left := r.logoWidth()

	if left > 0 {
		lb := r.Logo.Bounds()
		top := (r.Height - lb.Dy()) / 2
		draw.Draw(img, image.Rect(0, top, lb.Dx(), top+lb.Dy()), r.Logo, lb.Min, draw.Over)
	}

	sw := strip.Bounds().Dx()
	if sw == 0 {
		return img
	}
	offset = ((offset % sw) + sw) % sw
	area := r.Width - left

	// first piece: from offset to the end of the strip
	first := min(area, sw-offset)
	draw.Draw(img, image.Rect(left, 0, left+first, r.Height), strip, image.Pt(offset, 0), draw.Src)
	// wrapped piece from the start of the strip
	if first < area {
		draw.Draw(img, image.Rect(left+first, 0, r.Width, r.Height), strip, image.Pt(0, 0), draw.Src)
	}
	return img
}
