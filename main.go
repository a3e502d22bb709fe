package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ShivaSingh9927/Market-carousal/config"
	"github.com/ShivaSingh9927/Market-carousal/deck"
	"github.com/ShivaSingh9927/Market-carousal/pipeline"
	canvasrenderer "github.com/ShivaSingh9927/Market-carousal/renderer/canvas"
	"github.com/ShivaSingh9927/Market-carousal/slides"
	"github.com/ShivaSingh9927/Market-carousal/theme"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("加载配置失败")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("配置无效")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	mode, args := splitMode(os.Args[1:])
	switch mode {
	case "assemble":
		err = assembleCmd(cfg, args)
	default:
		err = renderCmd(ctx, cfg, args)
	}
	if err != nil {
		stop()
		log.Fatal().Err(err).Str("mode", mode).Msg("执行失败")
	}
}

// splitMode 取出子命令；省略时为 render。
func splitMode(args []string) (string, []string) {
	if len(args) > 0 {
		switch args[0] {
		case "render", "assemble":
			return args[0], args[1:]
		}
	}
	return "render", args
}

type renderOptions struct {
	PlanPath   string
	AssetDir   string
	OutDir     string
	PDFName    string
	Theme      string
	Logo       string
	Workers    int
	SkipFailed bool
	DebugPath  string
	DPI        float64
}

func renderCmd(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	o := renderOptions{}
	fs.StringVar(&o.PlanPath, "plan", filepath.Join(cfg.WorkDir, "carousal.json"), "幻灯片计划 JSON 路径")
	fs.StringVar(&o.AssetDir, "assets", cfg.WorkDir, "背景图目录（slide_{n}.png / bg_{n}.png）")
	fs.StringVar(&o.OutDir, "out", cfg.OutDir, "输出目录")
	fs.StringVar(&o.PDFName, "pdf", cfg.PDFName, "PDF 文件名")
	fs.StringVar(&o.Theme, "theme", cfg.Theme, themeUsage())
	fs.StringVar(&o.Logo, "logo", cfg.Logo, "品牌 logo 路径")
	fs.IntVar(&o.Workers, "workers", cfg.Workers, "并行渲染的幻灯片数")
	fs.BoolVar(&o.SkipFailed, "skip-failed", cfg.SkipFailed, "跳过渲染失败的幻灯片而不是中止")
	fs.StringVar(&o.DebugPath, "debug", "", "排版调试 JSON 输出路径")
	fs.Float64Var(&o.DPI, "dpi", cfg.PDFDPI, "PDF 页面尺寸换算所用的 DPI")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := render(ctx, o)
	if err != nil {
		return err
	}
	fmt.Printf("已生成 PDF：%s（%d 页）\n", res.Deck.Path, len(res.Deck.Pages))
	return nil
}

// render 串联计划加载、主题、并行合成与拼装。
func render(ctx context.Context, o renderOptions) (pipeline.Result, error) {
	th, baseDir, err := loadTheme(o.Theme)
	if err != nil {
		return pipeline.Result{}, err
	}
	if err := overrideLogo(&th, o.Logo); err != nil {
		return pipeline.Result{}, err
	}

	plan, err := slides.LoadPlan(o.PlanPath)
	if err != nil {
		return pipeline.Result{}, err
	}
	records := slides.ResolveBackgrounds(plan.Slides, o.AssetDir)

	r, err := canvasrenderer.NewRenderer(th, canvasrenderer.Options{BaseDir: baseDir})
	if err != nil {
		return pipeline.Result{}, fmt.Errorf("初始化合成器失败: %w", err)
	}
	if err := os.MkdirAll(o.OutDir, 0o755); err != nil {
		return pipeline.Result{}, fmt.Errorf("创建输出目录失败: %w", err)
	}

	policy := pipeline.AbortOnError
	if o.SkipFailed {
		policy = pipeline.SkipFailed
	}
	log.Info().
		Str("theme", th.Name).
		Int("slides", len(records)).
		Int("workers", o.Workers).
		Stringer("policy", policy).
		Msg("开始渲染")

	p := pipeline.New(r, deck.NewAssembler(pdfOptions(th, o.DPI)), pipeline.Options{
		OutDir:    o.OutDir,
		PDFName:   o.PDFName,
		Workers:   o.Workers,
		Policy:    policy,
		DebugPath: o.DebugPath,
	})
	return p.Run(ctx, records)
}

type assembleOptions struct {
	Dir     string
	PDFName string
	Theme   string
	DPI     float64
}

func assembleCmd(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("assemble", flag.ExitOnError)
	o := assembleOptions{}
	fs.StringVar(&o.Dir, "dir", cfg.OutDir, "final_slide_*.png 所在目录")
	fs.StringVar(&o.PDFName, "pdf", cfg.PDFName, "PDF 文件名")
	fs.StringVar(&o.Theme, "theme", cfg.Theme, "提供文档信息的"+themeUsage())
	fs.Float64Var(&o.DPI, "dpi", cfg.PDFDPI, "PDF 页面尺寸换算所用的 DPI")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := assemble(o)
	if err != nil {
		return err
	}
	fmt.Printf("已生成 PDF：%s（%d 页）\n", d.Path, len(d.Pages))
	return nil
}

// assemble 只拼装目录中已渲染的幻灯片，用于不重新渲染的重试。
func assemble(o assembleOptions) (deck.Deck, error) {
	th, _, err := loadTheme(o.Theme)
	if err != nil {
		return deck.Deck{}, err
	}
	rendered, err := slides.CollectRendered(o.Dir)
	if err != nil {
		return deck.Deck{}, err
	}
	images := make([]deck.SlideImage, 0, len(rendered))
	for _, s := range rendered {
		images = append(images, deck.SlideImage{Index: s.Index, Path: s.Path})
	}
	return deck.NewAssembler(pdfOptions(th, o.DPI)).Assemble(images, filepath.Join(o.Dir, o.PDFName))
}

// overrideLogo 用命令行或环境变量给出的 logo 替换主题中的 logo。
// 相对路径按当前工作目录解析，而不是主题文件所在目录。
func overrideLogo(th *theme.Theme, logo string) error {
	if logo == "" {
		return nil
	}
	abs, err := filepath.Abs(logo)
	if err != nil {
		return fmt.Errorf("解析 logo 路径 %s 失败: %w", logo, err)
	}
	th.Brand.Logo = abs
	return nil
}

func themeUsage() string {
	return fmt.Sprintf("主题：内置主题名（%s）或 .theme 文件路径", strings.Join(theme.Names(), "/"))
}

// loadTheme 返回主题以及解析主题内相对路径所用的目录。
func loadTheme(nameOrPath string) (theme.Theme, string, error) {
	th, err := theme.Load(nameOrPath)
	if err != nil {
		return theme.Theme{}, "", err
	}
	if _, builtin := theme.Lookup(nameOrPath); builtin {
		return th, "", nil
	}
	return th, filepath.Dir(nameOrPath), nil
}

func pdfOptions(th theme.Theme, dpi float64) deck.PDFOptions {
	return deck.PDFOptions{
		DPI: dpi,
		Meta: deck.Meta{
			Title:    th.Meta.Title,
			Subject:  th.Meta.Subject,
			Keywords: th.Meta.Keywords,
			Author:   th.Meta.Author,
			Creator:  th.Meta.Creator,
		},
	}
}
