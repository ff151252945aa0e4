package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ivlev/pcoa2video/internal/config"
	"github.com/ivlev/pcoa2video/internal/engine"
	"github.com/ivlev/pcoa2video/internal/system"
	"github.com/ivlev/pcoa2video/internal/video"
)

var version = "dev"

const (
	mappingDir = "input/mapping"
	coordsDir  = "input/coords"
	outputDir  = "output"
)

func main() {
	// Создаем нужные директории, если их нет
	for _, d := range []string{mappingDir, coordsDir, outputDir} {
		os.MkdirAll(d, 0755)
	}

	cfg, verbose, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}
	cfg.BuildVersion = version

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if cfg.MappingPath == "" {
		latest, err := system.FindLatest(mappingDir, system.MappingExtensions, "")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите файл метаданных в %s/", err, mappingDir)
		}
		cfg.MappingPath = latest
		fmt.Printf("[*] Выбран файл метаданных: %s\n", cfg.MappingPath)
	}
	if cfg.CoordinatesPath == "" {
		latest, err := system.FindLatest(coordsDir, system.CoordinatesExtensions, "")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите файл координат в %s/", err, coordsDir)
		}
		cfg.CoordinatesPath = latest
		fmt.Printf("[*] Выбран файл координат: %s\n", cfg.CoordinatesPath)
	}

	if cfg.OutputVideo == "" {
		cfg.OutputVideo = defaultOutput(cfg.MappingPath, cfg.TrajectoryCategory, time.Now())
	}

	if !cfg.DryRun {
		if err := system.CheckFFmpeg(); err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		if cfg.VideoEncoder == "" {
			cfg.VideoEncoder = system.GetBestH264Encoder()
			if cfg.VideoEncoder != "libx264" {
				fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", cfg.VideoEncoder)
			}
		}
		if cfg.Quality == 0 {
			cfg.Quality = system.DefaultQuality(cfg.VideoEncoder)
		}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	project := engine.NewAnimationProject(cfg, &video.FFmpegEncoder{})
	project.Logger = logger
	if err := project.Run(ctx); err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}
}

// parseFlags builds the configuration: defaults, then the -config file, then
// every flag set explicitly on the command line.
func parseFlags(fs *flag.FlagSet, args []string) (*config.Config, bool, error) {
	def := config.Default()

	configPtr := fs.String("config", "", "YAML-файл с настройками (флаги имеют приоритет)")
	mappingPtr := fs.String("mapping", "", "Файл метаданных (по умолчанию: самый свежий файл в "+mappingDir+"/)")
	coordsPtr := fs.String("coords", "", "Файл координат PCoA (по умолчанию: самый свежий файл в "+coordsDir+"/)")
	gradientPtr := fs.String("gradient", "", "Числовая колонка, задающая порядок точек (например, DOB)")
	trajectoryPtr := fs.String("trajectory", "", "Колонка, группирующая образцы в траектории (например, Treatment)")
	speedPtr := fs.Int("speed", def.SuppliedN, "Шагов интерполяции на минимальную дельту")
	maxNPtr := fs.Int("max-n", def.MaxN, "Максимум шагов интерполяции на один отрезок (0 - без ограничения)")
	paddingPtr := fs.Bool("padding", def.Padding, "Выравнивать начало траекторий по самому раннему значению градиента")
	epsilonPtr := fs.Float64("epsilon", def.Epsilon, "Смещение по оси Z для выравнивающей точки")
	outputPtr := fs.String("output", "", "Путь к видео (если пусто, генерируется автоматически в "+outputDir+"/)")
	planPtr := fs.String("plan", "", "Сохранить план анимации в YAML (auto - рядом с видео)")
	storyboardPtr := fs.String("storyboard", "", "Сохранить раскадровку ключевых кадров в PDF")
	widthPtr := fs.Int("width", def.Width, "Ширина")
	heightPtr := fs.Int("height", def.Height, "Высота")
	presetPtr := fs.String("preset", "", "Пресет формата: 16:9, 9:16, 4:5")
	fpsPtr := fs.Int("fps", def.FPS, "FPS")
	workersPtr := fs.Int("workers", system.DefaultWorkers(), "Потоки рендеринга")
	encoderPtr := fs.String("encoder", "", "Энкодер H.264 (по умолчанию: лучший доступный)")
	qualityPtr := fs.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	dryRunPtr := fs.Bool("dry-run", false, "Только построить траектории и вывести план")
	statsPtr := fs.Bool("stats", false, "Показать отчет о производительности")
	verbosePtr := fs.Bool("v", false, "Подробный лог")

	if err := fs.Parse(args); err != nil {
		return nil, false, err
	}

	cfg := def
	cfg.Workers = *workersPtr
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			return nil, false, err
		}
		cfg = loaded
		if cfg.Workers == def.Workers {
			cfg.Workers = *workersPtr
		}
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	apply := func(name string, fn func()) {
		if set[name] || *configPtr == "" {
			fn()
		}
	}
	apply("mapping", func() { cfg.MappingPath = *mappingPtr })
	apply("coords", func() { cfg.CoordinatesPath = *coordsPtr })
	apply("gradient", func() { cfg.GradientCategory = *gradientPtr })
	apply("trajectory", func() { cfg.TrajectoryCategory = *trajectoryPtr })
	apply("speed", func() { cfg.SuppliedN = *speedPtr })
	apply("max-n", func() { cfg.MaxN = *maxNPtr })
	apply("padding", func() { cfg.Padding = *paddingPtr })
	apply("epsilon", func() { cfg.Epsilon = *epsilonPtr })
	apply("output", func() { cfg.OutputVideo = *outputPtr })
	apply("plan", func() { cfg.PlanOutput = *planPtr })
	apply("storyboard", func() { cfg.StoryboardOutput = *storyboardPtr })
	apply("width", func() { cfg.Width = *widthPtr })
	apply("height", func() { cfg.Height = *heightPtr })
	apply("fps", func() { cfg.FPS = *fpsPtr })
	apply("workers", func() { cfg.Workers = *workersPtr })
	apply("encoder", func() { cfg.VideoEncoder = *encoderPtr })
	apply("quality", func() { cfg.Quality = *qualityPtr })
	apply("dry-run", func() { cfg.DryRun = *dryRunPtr })
	apply("stats", func() { cfg.ShowStats = *statsPtr })

	switch *presetPtr {
	case "":
	case "16:9":
		cfg.Width, cfg.Height = 1280, 720
	case "9:16":
		cfg.Width, cfg.Height = 720, 1280
	case "4:5":
		cfg.Width, cfg.Height = 1080, 1350
	default:
		return nil, false, fmt.Errorf("неизвестный пресет: %s", *presetPtr)
	}

	return cfg, *verbosePtr, nil
}

// defaultOutput names the video after the mapping file and trajectory column.
func defaultOutput(mappingPath, trajectoryCategory string, now time.Time) string {
	baseName := filepath.Base(mappingPath)
	nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
	if trajectoryCategory != "" {
		nameOnly += "_" + trajectoryCategory
	}
	cleanName := strings.ReplaceAll(nameOnly, " ", "_")
	timestamp := now.Format("2006-01-02_15-04-05")
	return filepath.Join(outputDir, fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
}
