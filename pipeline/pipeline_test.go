package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-playground/assert/v2"

	"github.com/ShivaSingh9927/Market-carousal/deck"
	"github.com/ShivaSingh9927/Market-carousal/layout"
	"github.com/ShivaSingh9927/Market-carousal/slides"
)

var errBroken = errors.New("broken slide")

// fakeRenderer 写出纯色 PNG，并记录并发度与调用参数。
type fakeRenderer struct {
	fail    map[int]bool
	delay   time.Duration
	active  atomic.Int32
	peak    atomic.Int32
	mu      sync.Mutex
	totals  []int
	renders int
}

func (f *fakeRenderer) RenderSlide(rec slides.SlideRecord, total int, outPath string) (layout.SlideLayout, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	f.totals = append(f.totals, total)
	f.renders++
	f.mu.Unlock()

	if f.fail[rec.Index] {
		return layout.SlideLayout{}, errBroken
	}
	img := imaging.New(8, 10, color.NRGBA{uint8(rec.Index), 0, 0, 255})
	if err := imaging.Save(img, outPath); err != nil {
		return layout.SlideLayout{}, err
	}
	return layout.SlideLayout{Index: rec.Index, Title: layout.Block{FontSize: 75}}, nil
}

// fakeAssembler 记录拼装请求。
type fakeAssembler struct {
	images []deck.SlideImage
	out    string
}

func (a *fakeAssembler) Assemble(images []deck.SlideImage, outPath string) (deck.Deck, error) {
	if len(images) == 0 {
		return deck.Deck{}, deck.ErrEmptyDeck
	}
	a.images = images
	a.out = outPath
	return deck.Deck{Path: outPath, Pages: images}, nil
}

func records(indices ...int) []slides.SlideRecord {
	out := make([]slides.SlideRecord, 0, len(indices))
	for _, i := range indices {
		out = append(out, slides.SlideRecord{Index: i, Title: fmt.Sprintf("Slide %d", i)})
	}
	return out
}

func TestRunRendersAndAssemblesInIndexOrder(t *testing.T) {
	dir := t.TempDir()
	r := &fakeRenderer{}
	a := &fakeAssembler{}
	p := New(r, a, Options{OutDir: dir, Workers: 2})

	in := records(3, 1, 2)
	res, err := p.Run(context.Background(), in)

	assert.Equal(t, nil, err)
	// 排序作用于副本，调用方的切片保持原样。
	assert.Equal(t, 3, in[0].Index)
	assert.Equal(t, filepath.Join(dir, "carousel.pdf"), a.out)
	assert.Equal(t, 3, len(a.images))
	for i, img := range a.images {
		assert.Equal(t, i+1, img.Index)
		assert.Equal(t, filepath.Join(dir, slides.OutputName(i+1)), img.Path)
		_, statErr := os.Stat(img.Path)
		assert.Equal(t, nil, statErr)
	}
	assert.Equal(t, 3, len(res.Layouts))
	assert.Equal(t, 1, res.Layouts[0].Index)
	assert.Equal(t, []int{3, 3, 3}, r.totals)
	assert.Equal(t, 0, len(res.Skipped))
}

func TestRunRespectsWorkerLimit(t *testing.T) {
	r := &fakeRenderer{delay: 20 * time.Millisecond}
	p := New(r, &fakeAssembler{}, Options{OutDir: t.TempDir(), Workers: 2})

	_, err := p.Run(context.Background(), records(1, 2, 3, 4, 5, 6))

	assert.Equal(t, nil, err)
	assert.Equal(t, true, r.peak.Load() <= 2)
	assert.Equal(t, 6, r.renders)
}

func TestRunAbortsOnFailure(t *testing.T) {
	a := &fakeAssembler{}
	p := New(&fakeRenderer{fail: map[int]bool{2: true}}, a, Options{OutDir: t.TempDir(), Workers: 1})

	_, err := p.Run(context.Background(), records(1, 2, 3))

	assert.Equal(t, true, errors.Is(err, errBroken))
	// 中止策略下不会拼装残缺的文档
	assert.Equal(t, 0, len(a.images))
}

func TestRunSkipsFailedSlides(t *testing.T) {
	a := &fakeAssembler{}
	p := New(&fakeRenderer{fail: map[int]bool{2: true}}, a, Options{OutDir: t.TempDir(), Workers: 3, Policy: SkipFailed})

	res, err := p.Run(context.Background(), records(1, 2, 3))

	assert.Equal(t, nil, err)
	assert.Equal(t, []int{2}, res.Skipped)
	assert.Equal(t, 2, len(a.images))
	assert.Equal(t, 1, a.images[0].Index)
	assert.Equal(t, 3, a.images[1].Index)
}

func TestRunAllSkippedIsEmptyDeck(t *testing.T) {
	p := New(&fakeRenderer{fail: map[int]bool{1: true}}, &fakeAssembler{}, Options{OutDir: t.TempDir(), Policy: SkipFailed})

	_, err := p.Run(context.Background(), records(1))

	assert.Equal(t, true, errors.Is(err, deck.ErrEmptyDeck))
}

func TestRunHonorsCancelledContext(t *testing.T) {
	r := &fakeRenderer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New(r, &fakeAssembler{}, Options{OutDir: t.TempDir(), Workers: 1})

	_, err := p.Run(ctx, records(1, 2))

	assert.Equal(t, true, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, r.renders)
}

func TestRunRejectsInvalidRecords(t *testing.T) {
	p := New(&fakeRenderer{}, &fakeAssembler{}, Options{OutDir: t.TempDir()})

	_, err := p.Run(context.Background(), nil)
	assert.Equal(t, true, errors.Is(err, slides.ErrNoSlides))

	_, err = p.Run(context.Background(), records(1, 1))
	assert.Equal(t, true, errors.Is(err, slides.ErrDuplicateIndex))
}

func TestRunWritesDebugLayout(t *testing.T) {
	dir := t.TempDir()
	debugPath := filepath.Join(dir, "layout.json")
	p := New(&fakeRenderer{}, &fakeAssembler{}, Options{OutDir: dir, DebugPath: debugPath, PDFName: "deck.pdf"})

	res, err := p.Run(context.Background(), records(2, 1))
	assert.Equal(t, nil, err)
	assert.Equal(t, filepath.Join(dir, "deck.pdf"), res.Deck.Path)

	data, err := os.ReadFile(debugPath)
	assert.Equal(t, nil, err)
	var layouts []layout.SlideLayout
	assert.Equal(t, nil, json.Unmarshal(data, &layouts))
	assert.Equal(t, 2, len(layouts))
	assert.Equal(t, 1, layouts[0].Index)
	assert.Equal(t, 75.0, layouts[0].Title.FontSize)
}
