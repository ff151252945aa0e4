package engine

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/pcoa2video/internal/config"
	"github.com/ivlev/pcoa2video/internal/director"
	"github.com/ivlev/pcoa2video/internal/metadata"
	"github.com/ivlev/pcoa2video/internal/ordination"
	"github.com/ivlev/pcoa2video/internal/renderer"
	"github.com/ivlev/pcoa2video/internal/report"
	"github.com/ivlev/pcoa2video/internal/trajectory"
	"github.com/ivlev/pcoa2video/internal/video"
)

// framesPerWorker bounds how many rendered frames wait in memory per worker.
const framesPerWorker = 4

type AnimationProject struct {
	Config  *config.Config
	Encoder video.VideoEncoder
	Logger  *slog.Logger
	Out     io.Writer
}

// FrameSnapshot is the state of every trajectory at one frame.
type FrameSnapshot struct {
	Index        int
	Keyframe     bool
	Trajectories []director.TrajectoryFrame
}

func NewAnimationProject(cfg *config.Config, ve video.VideoEncoder) *AnimationProject {
	return &AnimationProject{
		Config:  cfg,
		Encoder: ve,
		Logger:  slog.Default(),
		Out:     os.Stdout,
	}
}

func (p *AnimationProject) Run(ctx context.Context) error {
	startTime := time.Now()
	var renderTime time.Duration

	d, err := p.LoadDirector()
	if err != nil {
		return err
	}

	fmt.Fprintln(p.Out, "--- [PROJECT: TRAJECTORY ANIMATION] ---")
	fmt.Fprintf(p.Out, "[*] Метаданные: %s | Координаты: %s\n", p.Config.MappingPath, p.Config.CoordinatesPath)
	fmt.Fprintf(p.Out, "[*] Градиент: %s | Траектории: %s (%d)\n", d.GradientCategory(), d.TrajectoryCategory(), len(d.Trajectories()))
	fmt.Fprintf(p.Out, "[*] Минимальная дельта: %g | N: %d | Кадров: %d\n", d.MinimumDelta(), d.SuppliedN(), d.MaximumTrajectoryLength()+1)
	fmt.Fprintln(p.Out, "---------------------------------------")

	plan := director.PlanFor(d)
	if p.Config.PlanOutput != "" {
		planPath := p.Config.PlanOutput
		if planPath == "auto" {
			planPath = director.GeneratePlanPath(filepath.Dir(p.Config.OutputVideo))
		}
		if err := director.WritePlan(plan, planPath); err != nil {
			return fmt.Errorf("ошибка записи плана: %w", err)
		}
		fmt.Fprintf(p.Out, "[*] План сохранен: %s\n", planPath)
	}

	if p.Config.DryRun {
		p.printPlan(plan)
		if p.Config.StoryboardOutput == "" {
			return nil
		}
	}

	r, err := renderer.New(d, p.Config.Width, p.Config.Height)
	if err != nil {
		return err
	}

	frames := CollectFrames(director.NewPlayer(d))

	if p.Config.StoryboardOutput != "" {
		if err := p.writeStoryboard(r, plan, frames); err != nil {
			return err
		}
	}
	if p.Config.DryRun {
		return nil
	}

	fmt.Fprintf(p.Out, "[*] Разрешение: %dx%d @ %d FPS | Потоков: %d | Энкодер: %s\n",
		p.Config.Width, p.Config.Height, p.Config.FPS, p.Config.Workers, p.Config.VideoEncoder)

	renderStart := time.Now()
	if err := p.encode(ctx, r, frames); err != nil {
		return err
	}
	renderTime = time.Since(renderStart)

	fmt.Fprintf(p.Out, "[+++] Успех! Видео сохранено: %s\n", p.Config.OutputVideo)

	if p.Config.ShowStats {
		p.reportStats(len(frames), time.Since(startTime), renderTime)
	}
	return nil
}

// LoadDirector reads the input files and builds the director.
func (p *AnimationProject) LoadDirector() (*director.AnimationDirector, error) {
	table, err := metadata.LoadMapping(p.Config.MappingPath)
	if err != nil {
		return nil, err
	}
	coords, err := ordination.LoadCoordinates(p.Config.CoordinatesPath)
	if err != nil {
		return nil, err
	}

	var padding trajectory.Padder = trajectory.NoPadding{}
	if p.Config.Padding {
		padding = trajectory.ZOffsetPadding{Epsilon: p.Config.Epsilon}
	}

	opts := []director.Option{
		director.WithPadding(padding),
		director.WithLogger(p.Logger),
	}
	if p.Config.MaxN > 0 {
		opts = append(opts, director.WithMaxN(p.Config.MaxN))
	}

	d, err := director.New(table, coords, p.Config.GradientCategory, p.Config.TrajectoryCategory, p.Config.SuppliedN, opts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка построения траекторий: %w", err)
	}
	return d, nil
}

// CollectFrames plays the animation once and records every frame.
func CollectFrames(player *director.Player) []FrameSnapshot {
	d := player.Director()
	frames := make([]FrameSnapshot, 0, d.MaximumTrajectoryLength()+1)

	player.Reset()
	player.Start()
	for player.Tick() {
		frames = append(frames, FrameSnapshot{
			Index:        d.CurrentFrame(),
			Keyframe:     d.CurrentFrameIsGradientPoint(),
			Trajectories: d.Frame(),
		})
	}
	return frames
}

// encode renders frames in parallel batches and feeds them to the encoder in order.
func (p *AnimationProject) encode(ctx context.Context, r *renderer.Renderer, frames []FrameSnapshot) error {
	if len(frames) == 0 {
		return fmt.Errorf("анимация не содержит кадров")
	}

	writer, err := p.Encoder.Open(ctx, p.Config.OutputVideo, p.Config.Params(len(frames)), p.Config.VideoEncoder, p.Config.Quality)
	if err != nil {
		return fmt.Errorf("ошибка запуска энкодера: %w", err)
	}

	workers := max(p.Config.Workers, 1)
	batchSize := workers * framesPerWorker
	images := make([]image.Image, batchSize)

	for start := 0; start < len(frames); start += batchSize {
		if err := ctx.Err(); err != nil {
			writer.Close()
			return err
		}

		batch := frames[start:min(start+batchSize, len(frames))]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i, f := range batch {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				img, err := r.Render(f.Index, f.Trajectories)
				if err != nil {
					return fmt.Errorf("кадр %d: %w", f.Index, err)
				}
				images[i] = img
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			writer.Close()
			return fmt.Errorf("ошибка рендеринга: %w", err)
		}

		for i := range batch {
			if err := writer.WriteFrame(images[i]); err != nil {
				writer.Close()
				return err
			}
			images[i] = nil
		}
		fmt.Fprintf(p.Out, "[>] Ready: %d/%d\n", start+len(batch), len(frames))
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("ошибка сборки видео: %w", err)
	}
	return nil
}

func (p *AnimationProject) writeStoryboard(r *renderer.Renderer, plan *director.Plan, frames []FrameSnapshot) error {
	sb := &report.Storyboard{Plan: plan}
	for _, f := range frames {
		if !f.Keyframe {
			continue
		}
		data, err := r.RenderPNG(f.Index, f.Trajectories)
		if err != nil {
			return fmt.Errorf("кадр %d: %w", f.Index, err)
		}
		sb.Shots = append(sb.Shots, report.Shot{Frame: f.Index, PNG: data})
	}

	if err := sb.Save(p.Config.StoryboardOutput); err != nil {
		return fmt.Errorf("ошибка записи раскадровки: %w", err)
	}
	fmt.Fprintf(p.Out, "[*] Раскадровка сохранена: %s (%d кадров)\n", p.Config.StoryboardOutput, len(sb.Shots))
	return nil
}

func (p *AnimationProject) printPlan(plan *director.Plan) {
	fmt.Fprintln(p.Out, "[*] Пробный запуск, видео не создается")
	for _, tp := range plan.Trajectories {
		fmt.Fprintf(p.Out, "    %s: %d кадров\n", tp.Category, tp.Frames)
		for _, k := range tp.Keyframes {
			fmt.Fprintf(p.Out, "      кадр %4d  %-12s %s=%g\n", k.Frame, k.Sample, plan.GradientCategory, k.Gradient)
		}
	}
}

func (p *AnimationProject) reportStats(frames int, totalTime, renderTime time.Duration) {
	fps := float64(frames) / totalTime.Seconds()

	summary := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering + Encoding: %.2fs\n"+
			"Frames: %d\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, totalTime.Seconds(), renderTime.Seconds(), frames, fps,
	)
	fmt.Fprint(p.Out, summary)

	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Frames: %d | Workers: %d | Total: %.2fs | Render: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.MappingPath),
		frames,
		p.Config.Workers,
		totalTime.Seconds(),
		renderTime.Seconds(),
		fps,
	)

	if err := appendLog(benchmarkLog, logEntry); err != nil {
		fmt.Fprintf(p.Out, "[!] Не удалось записать %s: %v\n", benchmarkLog, err)
	}
}

const benchmarkLog = "benchmark.log"

func appendLog(path, entry string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(entry); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
