// ABOUTME: Tests for the plain-text callout serializer and the HTML document serializer
// ABOUTME: Checks exact layout, escaping, numbering and overlap rejection
package core

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/harper/docright/internal/models"
)

func inline(start, end int, instruction string) models.InlineCallout {
	return models.InlineCallout{
		OffsetRange: models.OffsetRange{StartOffset: start, EndOffset: end},
		Instruction: instruction,
	}
}

func TestBuildCalloutsXML_InlineCallout(t *testing.T) {
	got, err := BuildCalloutsXML("Hello world", []models.InlineCallout{inline(0, 5, "Capitalize")}, nil, nil)
	if err != nil {
		t.Fatalf("BuildCalloutsXML failed: %v", err)
	}

	for _, want := range []string{`<llm-edit id="1">`, "<![CDATA[Capitalize]]>", "Hello"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	want := "<llm-document>\n" +
		"<llm-edit id=\"1\">\n" +
		"  <instruction>\n" +
		"    <![CDATA[Capitalize]]>\n" +
		"  </instruction>\n" +
		"Hello\n" +
		"</llm-edit>\n" +
		" world\n" +
		"</llm-document>\n"
	if got != want {
		t.Errorf("output =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildCalloutsXML_Overlap(t *testing.T) {
	_, err := BuildCalloutsXML("Hello", []models.InlineCallout{inline(0, 4, "One"), inline(2, 5, "Two")}, nil, nil)
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("err = %v, want ErrOverlap", err)
	}
	var overlap *OverlapError
	if !errors.As(err, &overlap) {
		t.Fatalf("err = %T, want *OverlapError", err)
	}
	if overlap.StartOffset != 2 || overlap.Cursor != 4 {
		t.Errorf("overlap = %+v, want start 2 cursor 4", overlap)
	}
	if !strings.Contains(err.Error(), "overlapping instructions") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestBuildCalloutsXML_SortsAndNumbersPositionally(t *testing.T) {
	callouts := []models.InlineCallout{inline(6, 11, "second"), inline(0, 5, "first")}
	callouts[0].ID = "inline-9"
	callouts[1].ID = "inline-2"

	got, err := BuildCalloutsXML("Hello world", callouts, nil, nil)
	if err != nil {
		t.Fatalf("BuildCalloutsXML failed: %v", err)
	}
	first := strings.Index(got, "first")
	second := strings.Index(got, "second")
	if first < 0 || second < 0 || first > second {
		t.Errorf("callouts not in offset order:\n%s", got)
	}
	if !strings.Contains(got, `<llm-edit id="2">`) || strings.Contains(got, "inline-9") {
		t.Errorf("ids should be positional:\n%s", got)
	}
}

func TestBuildCalloutsXML_OverallAndContext(t *testing.T) {
	got, err := BuildCalloutsXML(
		"Body",
		nil,
		[]models.OverallCallout{{ID: "overall-7", Instruction: "Overall change"}},
		[]models.ContextItem{{Name: "Spec", Description: "Desc", Path: "/tmp/spec.md"}},
	)
	if err != nil {
		t.Fatalf("BuildCalloutsXML failed: %v", err)
	}

	want := "<llm-document>\n" +
		"<llm-overall>\n" +
		"  <llm-callout id=\"overall-1\">\n" +
		"    <instruction>\n" +
		"      <![CDATA[Overall change]]>\n" +
		"    </instruction>\n" +
		"  </llm-callout>\n" +
		"</llm-overall>\n" +
		"Body\n" +
		"<context>\n" +
		"  <context-document id=\"context-1\">\n" +
		"    <reference>\n" +
		"      <![CDATA[<Spec>]]>\n" +
		"    </reference>\n" +
		"    <name>Spec</name>\n" +
		"    <description>Desc</description>\n" +
		"    <path>/tmp/spec.md</path>\n" +
		"  </context-document>\n" +
		"</context>\n" +
		"</llm-document>\n"
	if got != want {
		t.Errorf("output =\n%q\nwant\n%q", got, want)
	}
}

func TestBuildCalloutsXML_EscapesBodyAndUsesUTF16Offsets(t *testing.T) {
	text := "😀 a<b> & c"
	// "a<b>" starts after the emoji (2 units) and a space.
	got, err := BuildCalloutsXML(text, []models.InlineCallout{inline(3, 7, "tag ]]> here")}, nil, nil)
	if err != nil {
		t.Fatalf("BuildCalloutsXML failed: %v", err)
	}
	if !strings.Contains(got, "<llm-document>\n😀 \n<llm-edit") {
		t.Errorf("emoji prefix not kept intact:\n%s", got)
	}
	if !strings.Contains(got, "a&lt;b&gt;\n</llm-edit>") {
		t.Errorf("covered text not escaped:\n%s", got)
	}
	if !strings.Contains(got, " &amp; c") {
		t.Errorf("trailing text not escaped:\n%s", got)
	}

	var doc struct {
		Edits []struct {
			ID          string `xml:"id,attr"`
			Instruction string `xml:"instruction"`
		} `xml:"llm-edit"`
	}
	if err := xml.Unmarshal([]byte(got), &doc); err != nil {
		t.Fatalf("output is not well-formed XML: %v\n%s", err, got)
	}
	if len(doc.Edits) != 1 {
		t.Fatalf("parsed %d edits, want 1", len(doc.Edits))
	}
	if strings.TrimSpace(doc.Edits[0].Instruction) != "tag ]]> here" {
		t.Errorf("instruction round trip = %q", doc.Edits[0].Instruction)
	}
}

func TestBuildDocumentXML(t *testing.T) {
	t.Run("minimal", func(t *testing.T) {
		got := BuildDocumentXML("<p>Hello</p>", nil, nil)
		want := "<llm-document>\n<llm-body>\n  <![CDATA[<p>Hello</p>]]>\n</llm-body>\n</llm-document>\n"
		if got != want {
			t.Errorf("output = %q, want %q", got, want)
		}
		if strings.Contains(got, "<llm-overall>") || strings.Contains(got, "<context>") {
			t.Errorf("empty blocks should be omitted:\n%s", got)
		}
	})

	t.Run("overall", func(t *testing.T) {
		got := BuildDocumentXML("Body", []models.OverallCallout{{Instruction: "Update title"}}, nil)
		for _, want := range []string{"<llm-overall>", `id="overall-1"`, "<instruction>", "<![CDATA[Update title]]>"} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("context escaping", func(t *testing.T) {
		got := BuildDocumentXML("Body", nil, []models.ContextItem{
			{Name: "Spec & Plan", Description: "Use <latest> draft", Path: "/tmp/a&b.txt"},
		})
		for _, want := range []string{
			"<context>",
			"<![CDATA[<Spec & Plan>]]>",
			"<name>Spec &amp; Plan</name>",
			"<description>Use &lt;latest&gt; draft</description>",
			"<path>/tmp/a&amp;b.txt</path>",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("output missing %q:\n%s", want, got)
			}
		}
	})

	t.Run("cdata terminator in body", func(t *testing.T) {
		got := BuildDocumentXML("Before ]]> After", nil, nil)
		if !strings.Contains(got, "<![CDATA[Before ]]]]>") || !strings.Contains(got, "<![CDATA[> After]]>") {
			t.Errorf("terminator not split:\n%s", got)
		}
	})
}
