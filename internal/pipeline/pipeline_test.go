package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/valpere/recast/internal/critic"
	"github.com/valpere/recast/internal/llm"
	"github.com/valpere/recast/internal/platform"
)

const rawDraft = "It is crucial—really crucial—to leverage #Leverage today. Read https://example.com/robust."

const humanizedDraft = "It's key, really key, to use #Leverage today. Read https://example.com/robust."

// mockClient answers core message, draft and variation prompts.
type mockClient struct {
	failFor   string
	coreErr   error
	delay     time.Duration
	callCount atomic.Int32
}

func (m *mockClient) Name() string { return "mock" }

func (m *mockClient) Complete(ctx context.Context, p llm.Prompt) (*llm.Completion, error) {
	m.callCount.Add(1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if strings.Contains(p.User, "Text to analyze") {
		if m.coreErr != nil {
			return nil, m.coreErr
		}
		return &llm.Completion{Text: `{"topic":"focus","thesis":"Do less.","insights":["Cut meetings"],"audience_analysis":"Makers"}`}, nil
	}

	if m.failFor != "" && strings.Contains(p.User, "Write a "+m.failFor+" post") {
		return nil, errors.New("provider exploded")
	}

	if p.JSON {
		return &llm.Completion{Text: fmt.Sprintf(`{"variations": [%q, %q, %q]}`, rawDraft, "Variant two—moreover.", "Variant three.")}, nil
	}
	return &llm.Completion{Text: rawDraft}, nil
}

func (m *mockClient) IsAvailable(ctx context.Context) error { return nil }

type mockCritic struct {
	selected int
	err      error
	calls    atomic.Int32
}

func (c *mockCritic) Choose(ctx context.Context, platform, audience string, drafts []string) (*critic.Verdict, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &critic.Verdict{Selected: c.selected, Reasoning: "picked"}, nil
}

func TestPipeline_Run_SingleDrafts(t *testing.T) {
	p := New(&mockClient{}, nil, nil, nil, Config{Parallel: 2}, nil)

	run, err := p.Run(context.Background(), Request{
		Text:      "A long article about focus.",
		Audience:  "makers",
		Platforms: []string{"LinkedIn", "twitter"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if run.ID == "" {
		t.Error("expected a run ID")
	}
	if run.Core == nil || run.Core.Topic != "focus" {
		t.Errorf("unexpected core message %+v", run.Core)
	}
	if len(run.Platforms) != 2 || run.Platforms[1] != platform.Twitter {
		t.Errorf("expected canonical platform names, got %v", run.Platforms)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}

	for _, res := range run.Results {
		if res.Error != "" {
			t.Errorf("%s failed: %s", res.Platform, res.Error)
			continue
		}
		best := res.Best()
		if best == nil {
			t.Fatalf("%s has no selected draft", res.Platform)
		}
		if best.Raw != rawDraft {
			t.Errorf("raw draft not kept: %q", best.Raw)
		}
		if best.Text != humanizedDraft {
			t.Errorf("%s draft = %q, want %q", res.Platform, best.Text, humanizedDraft)
		}
		if len(best.Metadata.AIPatterns) != 0 {
			t.Errorf("%s still has AI patterns %+v", res.Platform, best.Metadata.AIPatterns)
		}
		if best.Metadata.CharacterCount == 0 {
			t.Errorf("%s was not validated", res.Platform)
		}
	}
}

func TestPipeline_Run_PreservesRequestOrder(t *testing.T) {
	p := New(&mockClient{delay: 5 * time.Millisecond}, nil, nil, nil, Config{Parallel: 4}, nil)
	names := []string{"Substack", "Reddit", "Twitter/X", "LinkedIn", "Short Blog", "Email Sequence"}

	run, err := p.Run(context.Background(), Request{Text: "text", Platforms: names})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, name := range names {
		if run.Results[i].Platform != name {
			t.Errorf("result %d = %q, want %q", i, run.Results[i].Platform, name)
		}
	}
}

func TestPipeline_Run_PlatformFailureIsIsolated(t *testing.T) {
	p := New(&mockClient{failFor: "Reddit"}, nil, nil, nil, Config{Parallel: 3}, nil)

	run, err := p.Run(context.Background(), Request{Text: "text", Platforms: []string{"LinkedIn", "Reddit", "Substack"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Failed() != 1 {
		t.Errorf("expected 1 failed platform, got %d", run.Failed())
	}
	if !strings.Contains(run.Results[1].Error, "provider exploded") {
		t.Errorf("expected Reddit error, got %q", run.Results[1].Error)
	}
	if run.Results[1].Best() != nil {
		t.Error("failed platform should have no selected draft")
	}
	if run.Results[0].Error != "" || run.Results[2].Error != "" {
		t.Error("other platforms should succeed")
	}
}

func TestPipeline_Run_ABTestingWithCritic(t *testing.T) {
	c := &mockCritic{selected: 2}
	p := New(&mockClient{}, nil, nil, c, Config{Parallel: 1, Variations: 3}, nil)

	run, err := p.Run(context.Background(), Request{Text: "text", Platforms: []string{"LinkedIn"}, ABTesting: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := run.Results[0]
	if len(res.Drafts) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(res.Drafts))
	}
	if res.Selected != 2 || res.Reasoning != "picked" {
		t.Errorf("critic verdict not applied: %+v", res)
	}
	if res.Drafts[1].Text != "Variant two, also." {
		t.Errorf("variation not humanized: %q", res.Drafts[1].Text)
	}
	if c.calls.Load() != 1 {
		t.Errorf("expected one critic call, got %d", c.calls.Load())
	}
}

func TestPipeline_Run_CriticFailureKeepsFirstDraft(t *testing.T) {
	p := New(&mockClient{}, nil, nil, &mockCritic{err: errors.New("bad json")}, Config{}, nil)

	run, err := p.Run(context.Background(), Request{Text: "text", Platforms: []string{"LinkedIn"}, ABTesting: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := run.Results[0]
	if res.Error != "" {
		t.Errorf("critic failure should not fail the platform: %s", res.Error)
	}
	if res.Selected != 0 {
		t.Errorf("expected first draft, got %d", res.Selected)
	}
	if !strings.Contains(res.Reasoning, "critic unavailable") {
		t.Errorf("unexpected reasoning %q", res.Reasoning)
	}
}

func TestPipeline_Run_SingleDraftSkipsCritic(t *testing.T) {
	c := &mockCritic{}
	p := New(&mockClient{}, nil, nil, c, Config{}, nil)

	if _, err := p.Run(context.Background(), Request{Text: "text", Platforms: []string{"LinkedIn"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.calls.Load() != 0 {
		t.Errorf("critic should not run for a single draft, got %d calls", c.calls.Load())
	}
}

func TestPipeline_Run_Errors(t *testing.T) {
	tests := []struct {
		name   string
		client *mockClient
		req    Request
	}{
		{"empty text", &mockClient{}, Request{Text: "  ", Platforms: []string{"LinkedIn"}}},
		{"unknown platform", &mockClient{}, Request{Text: "text", Platforms: []string{"Friendster"}}},
		{"no platforms", &mockClient{}, Request{Text: "text"}},
		{"core message failure", &mockClient{coreErr: errors.New("down")}, Request{Text: "text", Platforms: []string{"LinkedIn"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, err := New(tt.client, nil, nil, nil, Config{}, nil).Run(context.Background(), tt.req)
			if err == nil {
				t.Error("expected error")
			}
			if run != nil {
				t.Error("expected no run")
			}
		})
	}
}

func TestPipeline_Run_Cancelled(t *testing.T) {
	client := &mockClient{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(client, nil, nil, nil, Config{}, nil).Run(ctx, Request{Text: "text", Platforms: []string{"LinkedIn"}}); err == nil {
		t.Error("expected error for cancelled context")
	}
	if client.callCount.Load() != 0 {
		t.Errorf("no model calls expected after cancellation, got %d", client.callCount.Load())
	}
}

func TestPipeline_Run_PlatformTimeout(t *testing.T) {
	p := New(&mockClient{}, nil, nil, nil, Config{Timeout: 20 * time.Millisecond}, nil)
	p.client = &slowDraftClient{mockClient: &mockClient{}, delay: time.Second}

	run, err := p.Run(context.Background(), Request{Text: "text", Platforms: []string{"LinkedIn"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(run.Results[0].Error, context.DeadlineExceeded.Error()) {
		t.Errorf("expected deadline error, got %q", run.Results[0].Error)
	}
}

// slowDraftClient answers the core message at once and stalls on drafts.
type slowDraftClient struct {
	*mockClient
	delay time.Duration
}

func (s *slowDraftClient) Complete(ctx context.Context, p llm.Prompt) (*llm.Completion, error) {
	if strings.Contains(p.User, "Text to analyze") {
		return s.mockClient.Complete(ctx, p)
	}
	select {
	case <-time.After(s.delay):
		return s.mockClient.Complete(ctx, p)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestPipeline_Run_NormalizesInput(t *testing.T) {
	p := New(&mockClient{}, nil, nil, nil, Config{}, nil)

	run, err := p.Run(context.Background(), Request{Text: "  Cafe\u0301 notes ", Platforms: []string{"LinkedIn"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.SourceText != "Caf\u00e9 notes" {
		t.Errorf("expected NFC-normalized trimmed text, got %q", run.SourceText)
	}
}

func TestPipeline_Run_NoHumanize(t *testing.T) {
	p := New(&mockClient{}, nil, nil, nil, Config{NoHumanize: true}, nil)

	var stages []Stage
	p.OnEvent(func(e Event) { stages = append(stages, e.Stage) })

	run, err := p.Run(context.Background(), Request{Text: "text", Platforms: []string{"LinkedIn"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	best := run.Results[0].Best()
	if best == nil || best.Text != rawDraft {
		t.Fatalf("expected the raw draft, got %+v", best)
	}
	if len(best.Metadata.AIPatterns) == 0 {
		t.Error("expected AI patterns in the raw draft")
	}
	for _, s := range stages {
		if s == StageHumanize {
			t.Error("humanize stage should be skipped")
		}
	}
}

func TestPipeline_Events(t *testing.T) {
	p := New(&mockClient{}, nil, nil, nil, Config{Parallel: 2}, nil)

	var mu sync.Mutex
	seen := map[string][]Stage{}
	p.OnEvent(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		seen[e.Platform] = append(seen[e.Platform], e.Stage)
	})

	if _, err := p.Run(context.Background(), Request{Text: "text", Platforms: []string{"LinkedIn", "Reddit"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := seen[""]; len(got) != 1 || got[0] != StageCoreMessage {
		t.Errorf("unexpected run-level events %v", got)
	}
	want := []Stage{StageGenerate, StageHumanize, StageValidate, StageDone}
	for _, name := range []string{"LinkedIn", "Reddit"} {
		got := seen[name]
		if len(got) != len(want) {
			t.Errorf("%s events = %v, want %v", name, got, want)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s event %d = %s, want %s", name, i, got[i], want[i])
			}
		}
	}
}

func TestRun_Records(t *testing.T) {
	c := &mockCritic{selected: 1}
	p := New(&mockClient{failFor: "Reddit"}, nil, nil, c, Config{}, nil)

	run, err := p.Run(context.Background(), Request{Text: "text", Platforms: []string{"LinkedIn", "Reddit"}, ABTesting: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec, drafts, err := run.Records()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID != run.ID || rec.Topic != "focus" {
		t.Errorf("unexpected run record %+v", rec)
	}
	if len(drafts) != 4 {
		t.Fatalf("expected 3 LinkedIn rows and 1 Reddit row, got %d", len(drafts))
	}

	selected := 0
	for _, d := range drafts {
		if d.Selected {
			selected++
			if d.Variant != 1 || d.Platform != platform.LinkedIn {
				t.Errorf("unexpected selected row %+v", d)
			}
		}
	}
	if selected != 1 {
		t.Errorf("expected one selected row, got %d", selected)
	}
	if last := drafts[3]; last.Platform != platform.Reddit || last.Error == "" || last.Metadata != "" {
		t.Errorf("unexpected failed row %+v", last)
	}
	if !strings.Contains(drafts[0].Metadata, `"character_count"`) {
		t.Errorf("metadata not encoded: %q", drafts[0].Metadata)
	}
}

// longDraftClient returns drafts over LinkedIn's character limit.
type longDraftClient struct {
	*mockClient
}

func (l *longDraftClient) Complete(ctx context.Context, p llm.Prompt) (*llm.Completion, error) {
	if strings.Contains(p.User, "Text to analyze") {
		return l.mockClient.Complete(ctx, p)
	}
	return &llm.Completion{Text: strings.Repeat("Ship it today. ", 100)}, nil
}

type mockRefiner struct {
	revised string
	err     error
	calls   atomic.Int32
}

func (r *mockRefiner) Refine(ctx context.Context, p platform.Platform, draft string, problems []string) (string, error) {
	r.calls.Add(1)
	if r.err != nil {
		return "", r.err
	}
	if len(problems) == 0 {
		return "", errors.New("expected problems to fix")
	}
	return r.revised, nil
}

func TestPipeline_Run_Refine(t *testing.T) {
	tests := []struct {
		name        string
		refiner     *mockRefiner
		wantRefined bool
		wantText    string
	}{
		{"compliant revision replaces draft", &mockRefiner{revised: "Ship it today—moreover, ship small."}, true, "Ship it today, also, ship small."},
		{"longer revision is discarded", &mockRefiner{revised: strings.Repeat("Ship it today. ", 120)}, false, ""},
		{"refiner error keeps draft", &mockRefiner{err: errors.New("down")}, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(&longDraftClient{&mockClient{}}, nil, nil, nil, Config{}, nil).WithRefiner(tt.refiner)

			run, err := p.Run(context.Background(), Request{Text: "text", Platforms: []string{"LinkedIn"}})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			res := run.Results[0]
			if res.Error != "" {
				t.Fatalf("refining should never fail the platform: %s", res.Error)
			}
			if tt.refiner.calls.Load() != 1 {
				t.Errorf("expected one refine call, got %d", tt.refiner.calls.Load())
			}
			if res.Refined != tt.wantRefined {
				t.Errorf("Refined = %v, want %v", res.Refined, tt.wantRefined)
			}

			best := res.Best()
			if tt.wantRefined {
				if best.Text != tt.wantText || !best.Metadata.PlatformCompliant {
					t.Errorf("unexpected revision %q (compliant %v)", best.Text, best.Metadata.PlatformCompliant)
				}
				return
			}
			if best.Metadata.PlatformCompliant || !strings.HasPrefix(best.Text, "Ship it today.") {
				t.Errorf("original draft should be kept, got %q", best.Text)
			}
		})
	}
}

func TestPipeline_Run_RefineSkipsCompliantDrafts(t *testing.T) {
	r := &mockRefiner{revised: "unused"}
	p := New(&mockClient{}, nil, nil, nil, Config{}, nil).WithRefiner(r)

	if _, err := p.Run(context.Background(), Request{Text: "text", Platforms: []string{"LinkedIn"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.calls.Load() != 0 {
		t.Errorf("refiner should not run for compliant drafts, got %d calls", r.calls.Load())
	}
}
