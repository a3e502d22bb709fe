// Package pipeline 并行渲染幻灯片，全部完成后按序号拼装成文档。
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ShivaSingh9927/Market-carousal/deck"
	"github.com/ShivaSingh9927/Market-carousal/layout"
	"github.com/ShivaSingh9927/Market-carousal/renderer"
	"github.com/ShivaSingh9927/Market-carousal/slides"
)

// Policy 决定单张幻灯片失败时的处理方式。
type Policy int

const (
	// AbortOnError 在第一张失败时取消其余渲染并返回错误。
	AbortOnError Policy = iota
	// SkipFailed 记录失败并从文档中去掉该张幻灯片。
	SkipFailed
)

func (p Policy) String() string {
	if p == SkipFailed {
		return "skip"
	}
	return "abort"
}

// Assembler 将渲染好的图像拼装成文档，*deck.Assembler 实现了该接口。
type Assembler interface {
	Assemble(images []deck.SlideImage, outPath string) (deck.Deck, error)
}

// Options 配置一次运行。
type Options struct {
	OutDir    string
	PDFName   string
	Workers   int // <=0 时取 CPU 数
	Policy    Policy
	DebugPath string // 非空时写出排版调试 JSON
}

// Result 汇总一次运行的产物。
type Result struct {
	Rendered []deck.SlideImage    // 按序号升序
	Layouts  []layout.SlideLayout // 按序号升序
	Skipped  []int
	Deck     deck.Deck
}

// Pipeline 组合合成器与拼装器。
type Pipeline struct {
	renderer  renderer.SlideRenderer
	assembler Assembler
	opts      Options
}

// New 创建 Pipeline。
func New(r renderer.SlideRenderer, a Assembler, opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.PDFName == "" {
		opts.PDFName = "carousel.pdf"
	}
	return &Pipeline{renderer: r, assembler: a, opts: opts}
}

// Run 渲染全部幻灯片后拼装文档。拼装只在所有渲染任务结束后进行。
func (p *Pipeline) Run(ctx context.Context, records []slides.SlideRecord) (Result, error) {
	res, err := p.Render(ctx, records)
	if err != nil {
		return res, err
	}
	if p.opts.DebugPath != "" {
		if err := layout.WriteDebugJSON(res.Layouts, p.opts.DebugPath); err != nil {
			return res, fmt.Errorf("写入排版调试文件失败: %w", err)
		}
	}

	out := filepath.Join(p.opts.OutDir, p.opts.PDFName)
	d, err := p.assembler.Assemble(res.Rendered, out)
	if err != nil {
		return res, err
	}
	res.Deck = d
	log.Info().Str("path", d.Path).Int("pages", len(d.Pages)).Msg("文档已生成")
	return res, nil
}

// Render 以有界并发逐张渲染，每张幻灯片写入 OutDir/final_slide_{nn}.png。
func (p *Pipeline) Render(ctx context.Context, records []slides.SlideRecord) (Result, error) {
	if err := slides.Validate(records); err != nil {
		return Result{}, err
	}
	records = slices.Clone(records)
	slides.SortByIndex(records)
	total := len(records)

	type outcome struct {
		image  deck.SlideImage
		layout layout.SlideLayout
		ok     bool
	}
	outcomes := make([]outcome, len(records))

	var (
		mu      sync.Mutex
		skipped []int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outPath := filepath.Join(p.opts.OutDir, slides.OutputName(rec.Index))
			lay, err := p.renderer.RenderSlide(rec, total, outPath)
			if err != nil {
				if p.opts.Policy == SkipFailed {
					log.Warn().Err(err).Int("slide", rec.Index).Msg("渲染失败，已跳过")
					mu.Lock()
					skipped = append(skipped, rec.Index)
					mu.Unlock()
					return nil
				}
				return fmt.Errorf("渲染第 %d 张幻灯片失败: %w", rec.Index, err)
			}
			log.Debug().Int("slide", rec.Index).Str("path", outPath).Msg("幻灯片已渲染")
			outcomes[i] = outcome{image: deck.SlideImage{Index: rec.Index, Path: outPath}, layout: lay, ok: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for _, o := range outcomes {
		if !o.ok {
			continue
		}
		res.Rendered = append(res.Rendered, o.image)
		res.Layouts = append(res.Layouts, o.layout)
	}
	sort.Ints(skipped)
	res.Skipped = skipped
	log.Info().Int("rendered", len(res.Rendered)).Int("skipped", len(skipped)).Msg("渲染完成")
	return res, nil
}
