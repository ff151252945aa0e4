// Package report writes printable summaries of an animation.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/ivlev/pcoa2video/internal/director"
)

const (
	inchToMm     = 25.4
	pageWidth    = 11 * inchToMm // Letter landscape
	pageHeight   = 8.5 * inchToMm
	margin       = 0.5 * inchToMm
	contentWidth = pageWidth - 2*margin
	lineHeight   = 6.0
)

// Shot is a rendered frame placed in the storyboard.
type Shot struct {
	Frame int
	PNG   []byte
}

// Storyboard is a PDF with the keyframe schedule followed by one page per shot.
type Storyboard struct {
	Plan  *director.Plan
	Shots []Shot
}

// WriteTo renders the storyboard as PDF.
func (s *Storyboard) WriteTo(w io.Writer) (int64, error) {
	if s.Plan == nil {
		return 0, fmt.Errorf("storyboard has no plan")
	}

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	s.writeSummary(pdf)
	s.writeSchedule(pdf)
	for _, shot := range s.Shots {
		s.writeShot(pdf, shot)
	}

	if err := pdf.Error(); err != nil {
		return 0, fmt.Errorf("failed to build storyboard: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return 0, fmt.Errorf("failed to write storyboard: %w", err)
	}
	return buf.WriteTo(w)
}

// Save writes the storyboard to path.
func (s *Storyboard) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Storyboard) writeSummary(pdf *gofpdf.Fpdf) {
	p := s.Plan

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(contentWidth, 10, fmt.Sprintf("Trajectories of %s over %s", p.TrajectoryCategory, p.GradientCategory), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 10)
	lines := []string{
		fmt.Sprintf("Trajectories: %d", len(p.Trajectories)),
		fmt.Sprintf("Frames: %d", p.Frames),
		fmt.Sprintf("Speed (N): %d", p.SuppliedN),
		fmt.Sprintf("Minimum delta: %s", strconv.FormatFloat(p.MinimumDelta, 'g', -1, 64)),
	}
	for _, l := range lines {
		pdf.CellFormat(contentWidth, lineHeight, l, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (s *Storyboard) writeSchedule(pdf *gofpdf.Fpdf) {
	headers := []string{"Trajectory", "Sample", "Gradient", "Frame", "PC1", "PC2", "PC3"}
	widths := []float64{0.2, 0.15, 0.15, 0.1, 0.13, 0.13, 0.14}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	for i, h := range headers {
		pdf.CellFormat(widths[i]*contentWidth, lineHeight, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, tp := range s.Plan.Trajectories {
		for _, k := range tp.Keyframes {
			cells := []string{
				tp.Category,
				k.Sample,
				strconv.FormatFloat(k.Gradient, 'g', -1, 64),
				strconv.Itoa(k.Frame),
				fmt.Sprintf("%.4f", k.Point.X),
				fmt.Sprintf("%.4f", k.Point.Y),
				fmt.Sprintf("%.4f", k.Point.Z),
			}
			for i, c := range cells {
				pdf.CellFormat(widths[i]*contentWidth, lineHeight, c, "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}
}

func (s *Storyboard) writeShot(pdf *gofpdf.Fpdf, shot Shot) {
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(contentWidth, 8, fmt.Sprintf("Frame %d", shot.Frame), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, tp := range s.Plan.Trajectories {
		for _, k := range tp.Keyframes {
			if k.Frame == shot.Frame {
				pdf.CellFormat(contentWidth, lineHeight, fmt.Sprintf("%s reaches %s (%s = %s)",
					tp.Category, k.Sample, s.Plan.GradientCategory, strconv.FormatFloat(k.Gradient, 'g', -1, 64)), "", 1, "L", false, 0, "")
			}
		}
	}

	name := fmt.Sprintf("frame_%d", shot.Frame)
	info := pdf.RegisterImageReader(name, "PNG", bytes.NewReader(shot.PNG))
	if info == nil || info.Width() == 0 {
		return
	}

	y := pdf.GetY() + 2
	width := contentWidth
	height := width * info.Height() / info.Width()
	if maxHeight := pageHeight - margin - y; height > maxHeight {
		height = maxHeight
		width = height * info.Width() / info.Height()
	}
	pdf.Image(name, margin+(contentWidth-width)/2, y, width, height, false, "PNG", 0, "")
}
