package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/image/draw"

	"github.com/ivlev/pcoa2video/internal/config"
	"github.com/ivlev/pcoa2video/internal/system"
)

// FrameWriter accepts the frames of one video in display order.
type FrameWriter interface {
	WriteFrame(img image.Image) error
	Close() error
}

type VideoEncoder interface {
	Open(ctx context.Context, videoPath string, params config.FrameParams, encoderName string, quality int) (FrameWriter, error)
}

type FFmpegEncoder struct{}

// Open starts ffmpeg reading raw RGBA frames of params.Width x params.Height
// from stdin. Frames of another size are scaled.
func (e *FFmpegEncoder) Open(
	ctx context.Context,
	videoPath string,
	params config.FrameParams,
	encoderName string,
	quality int,
) (FrameWriter, error) {
	args := buildFFmpegArgs(videoPath, params, encoderName, quality)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	stderr := new(bytes.Buffer)
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	rect := image.Rect(0, 0, params.Width, params.Height)
	return &ffmpegStream{
		cmd:    cmd,
		stdin:  stdin,
		stderr: stderr,
		rect:   rect,
		pool:   system.NewFramePool(rect),
	}, nil
}

type ffmpegStream struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	rect   image.Rectangle
	pool   *system.FramePool
	frames int
}

func (s *ffmpegStream) WriteFrame(img image.Image) error {
	if err := writeRawRGBA(s.stdin, img, s.rect, s.pool); err != nil {
		return fmt.Errorf("write raw error (frame %d): %w", s.frames, err)
	}
	s.frames++
	return nil
}

func (s *ffmpegStream) Close() error {
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, tail(s.stderr.String(), 512))
	}
	return nil
}

func buildFFmpegArgs(
	videoPath string,
	params config.FrameParams,
	encoderName string,
	quality int,
) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", encoderName,
	}

	// Качество в зависимости от энкодера
	switch encoderName {
	case "h264_videotoolbox":
		bitrate := quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", quality), "-preset", "medium")
	}

	args = append(args, videoPath)
	return args
}

// writeRawRGBA writes img as tightly packed RGBA rows of size rect.
func writeRawRGBA(w io.Writer, img image.Image, rect image.Rectangle, pool *system.FramePool) error {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect == rect && rgba.Stride == rect.Dx()*4 {
		_, err := w.Write(rgba.Pix)
		return err
	}

	buf := pool.Get()
	defer pool.Put(buf)

	if bounds.Dx() == rect.Dx() && bounds.Dy() == rect.Dy() {
		draw.Draw(buf, rect, img, bounds.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(buf, rect, img, bounds, draw.Src, nil)
	}
	_, err := w.Write(buf.Pix)
	return err
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
