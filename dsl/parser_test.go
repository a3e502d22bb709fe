package dsl_test

import (
	"strings"
	"testing"

	"github.com/ShivaSingh9927/Market-carousal/dsl"
)

const sampleTheme = `
// 轮播主题
theme Carousel v1 {
  color accent = #ACAAFF
  color primary = [0.278, 0.121, 1.0]

  canvas {
    width: 1080
    height: 1350
    safe-bottom: 80px
  }

  scrim gradient {
    extent: 90%
    stop 0 0.8
    stop 0.3 0.3
  }

  text body {
    size: 42
    width: 70%
    bold-color: accent
    highlight: true
  }

  footer {
    text: "${brand} · ${index}"
  }
}
`

func TestParseTheme(t *testing.T) {
	doc, err := dsl.ParseString(sampleTheme)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Carousel" {
		t.Fatalf("expected theme name Carousel, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Statements) != 6 {
		t.Fatalf("expected 6 statements, got %d", len(doc.Statements))
	}

	accent := doc.Statements[0].Command
	if accent == nil || accent.Name != "color" {
		t.Fatalf("expected color command, got %+v", doc.Statements[0])
	}
	if accent.Arg(0) != "accent" || accent.Arg(1) != "=" || accent.Arg(2) != "#ACAAFF" {
		t.Fatalf("unexpected color args: %+v", accent.Args)
	}

	primary := doc.Statements[1].Command
	if got := dsl.JoinLexemes(primary.Args[2:], ""); got != "[0.278,0.121,1.0]" {
		t.Fatalf("unexpected rgb literal: %s", got)
	}

	canvas := doc.Statements[2].Command
	if canvas == nil || canvas.Name != "canvas" || len(canvas.Statements()) != 3 {
		t.Fatalf("canvas block malformed: %+v", doc.Statements[2])
	}
	safe := canvas.Statements()[2].Assignment
	if safe == nil || safe.Key != "safe-bottom" || safe.Value.Text() != "80px" {
		t.Fatalf("unexpected safe-bottom assignment: %+v", safe)
	}

	scrim := doc.Statements[3].Command
	if scrim.Arg(0) != "gradient" {
		t.Fatalf("expected gradient scrim, got %+v", scrim.Args)
	}
	if len(scrim.Statements()) != 3 {
		t.Fatalf("expected extent plus two stops, got %d", len(scrim.Statements()))
	}
	stop := scrim.Statements()[2].Command
	if stop == nil || stop.Name != "stop" || stop.Arg(0) != "0.3" || stop.Arg(1) != "0.3" {
		t.Fatalf("unexpected stop: %+v", scrim.Statements()[2])
	}

	body := doc.Statements[4].Command
	if body.Arg(0) != "body" {
		t.Fatalf("expected text body command, got %+v", body.Args)
	}
	boldColor := body.Statements()[2].Assignment
	if boldColor == nil || boldColor.Value.Expr == nil || boldColor.Value.Text() != "accent" {
		t.Fatalf("bold-color should be an identifier expression, got %+v", boldColor)
	}

	footer := doc.Statements[5].Command
	text := footer.Statements()[0].Assignment
	if text == nil || text.Value.String == nil {
		t.Fatalf("footer text missing")
	}
	if got := text.Value.Text(); !strings.Contains(got, "${index}") {
		t.Fatalf("expected template in footer text, got %s", got)
	}
}

func TestParseRejectsMissingHeader(t *testing.T) {
	if _, err := dsl.ParseString(`canvas { width: 10 }`); err == nil {
		t.Fatalf("expected error for document without theme header")
	}
}

func TestParseSemicolonSeparated(t *testing.T) {
	doc, err := dsl.ParseString("theme Mini v2 {\n  brand { name: \"ACME\"; size: 30 }\n}\n")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	brand := doc.Statements[0].Command
	if len(brand.Statements()) != 2 {
		t.Fatalf("expected 2 brand assignments, got %d", len(brand.Statements()))
	}
	if got := brand.Statements()[1].Assignment.Value.Text(); got != "30" {
		t.Fatalf("unexpected size: %s", got)
	}
}
