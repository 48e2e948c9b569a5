// Package pipeline runs a source text through core message extraction and
// then, for every selected platform in parallel: drafting, humanizing,
// optional A/B critique and validation.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/valpere/recast/internal"
	"github.com/valpere/recast/internal/critic"
	"github.com/valpere/recast/internal/generator"
	"github.com/valpere/recast/internal/humanize"
	"github.com/valpere/recast/internal/llm"
	"github.com/valpere/recast/internal/logger"
	"github.com/valpere/recast/internal/placeholder"
	"github.com/valpere/recast/internal/platform"
	"github.com/valpere/recast/internal/refiner"
	"github.com/valpere/recast/internal/validator"
)

const DefaultVariations = 3

type Stage string

const (
	StageCoreMessage Stage = "core_message"
	StageGenerate    Stage = "generate"
	StageHumanize    Stage = "humanize"
	StageCritic      Stage = "critic"
	StageValidate    Stage = "validate"
	StageRefine      Stage = "refine"
	StageDone        Stage = "done"
	StageFailed      Stage = "failed"
)

// Event reports progress. Platform is empty for run-level stages.
type Event struct {
	Platform string
	Stage    Stage
	Err      error
}

type Config struct {
	Parallel   int           `mapstructure:"parallel"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Variations int           `mapstructure:"variations"`
	// NoHumanize keeps the raw drafts.
	NoHumanize bool          `mapstructure:"no_humanize"`
}

type Request struct {
	Text      string
	Audience  string
	Platforms []string
	ABTesting bool
}

// Draft is one humanized variation and its validation.
type Draft struct {
	Raw      string             `json:"raw"`
	Text     string             `json:"text"`
	Metadata validator.Metadata `json:"metadata"`
}

type PlatformResult struct {
	Platform  string        `json:"platform"`
	Drafts    []Draft       `json:"drafts"`
	Selected  int           `json:"selected"`
	Scores    []int         `json:"scores,omitempty"`
	Reasoning string        `json:"reasoning,omitempty"`
	Refined   bool          `json:"refined,omitempty"`
	Error     string        `json:"error,omitempty"`
	Latency   time.Duration `json:"latency"`
}

// Best returns the selected draft, or nil when the platform failed.
func (r *PlatformResult) Best() *Draft {
	if r.Selected < 0 || r.Selected >= len(r.Drafts) {
		return nil
	}
	return &r.Drafts[r.Selected]
}

type Run struct {
	internal.RunRequest
	Core     *generator.CoreMessage `json:"core_message"`
	Results  []PlatformResult       `json:"results"`
	Duration time.Duration          `json:"duration"`
}

// Failed counts platforms that produced no draft.
func (r *Run) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Error != "" {
			n++
		}
	}
	return n
}

type Pipeline struct {
	client    llm.Client
	humanizer *humanize.Humanizer
	validator *validator.Validator
	critic    critic.Critic
	refiner   refiner.Refiner
	config    Config
	log       *logger.Logger

	mu      sync.Mutex
	onEvent func(Event)
}

// New creates a Pipeline. A nil humanizer uses the default rule tables, a
// nil validator skips the language check, and a nil critic keeps the first
// variation.
func New(client llm.Client, h *humanize.Humanizer, v *validator.Validator, c critic.Critic, config Config, log *logger.Logger) *Pipeline {
	if h == nil {
		h = humanize.Default()
	}
	if v == nil {
		v = validator.New(h, nil, "")
	}
	if log == nil {
		log = logger.Nop()
	}
	if config.Parallel <= 0 {
		config.Parallel = 1
	}
	if config.Variations <= 1 {
		config.Variations = DefaultVariations
	}
	return &Pipeline{
		client:    client,
		humanizer: h,
		validator: v,
		critic:    c,
		config:    config,
		log:       log.WithComponent("pipeline"),
	}
}

// WithRefiner enables one revision of a selected draft that breaks its
// platform's character limit.
func (p *Pipeline) WithRefiner(r refiner.Refiner) *Pipeline {
	p.refiner = r
	return p
}

// OnEvent registers a progress callback. Calls are serialized.
func (p *Pipeline) OnEvent(fn func(Event)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onEvent = fn
}

func (p *Pipeline) emit(e Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.onEvent != nil {
		p.onEvent(e)
	}
}

// Run processes req. A failing platform is recorded in its result and never
// stops the others. The returned error is set only when no platform could
// run at all or ctx was cancelled; in the latter case the partial run is
// returned alongside it.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Run, error) {
	start := time.Now()

	text := norm.NFC.String(strings.TrimSpace(req.Text))
	if text == "" {
		return nil, fmt.Errorf("source text is empty")
	}

	platforms, err := platform.Resolve(req.Platforms)
	if err != nil {
		return nil, err
	}

	run := &Run{
		RunRequest: internal.RunRequest{
			ID:         uuid.New().String(),
			SourceText: text,
			Audience:   req.Audience,
			ABTesting:  req.ABTesting,
			Timestamp:  start,
		},
	}
	for _, pl := range platforms {
		run.Platforms = append(run.Platforms, pl.Name)
	}
	log := p.log.WithRunID(run.ID)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.emit(Event{Stage: StageCoreMessage})
	core, err := generator.ExtractCoreMessage(ctx, p.client, text)
	if err != nil {
		p.emit(Event{Stage: StageFailed, Err: err})
		return nil, err
	}
	run.Core = core
	log.Info("core message extracted", zap.String("topic", core.Topic), zap.Int("insights", len(core.Insights)))

	type resultChan struct {
		index int
		res   PlatformResult
	}

	results := make(chan resultChan, len(platforms))
	sem := make(chan struct{}, p.config.Parallel)

	var wg sync.WaitGroup
	for i, pl := range platforms {
		wg.Add(1)
		go func(index int, target platform.Platform) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results <- resultChan{index: index, res: PlatformResult{Platform: target.Name, Selected: -1, Error: ctx.Err().Error()}}
				return
			}

			results <- resultChan{index: index, res: p.processPlatform(ctx, log, target, *core, req)}
		}(i, pl)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	run.Results = make([]PlatformResult, len(platforms))
	for rc := range results {
		run.Results[rc.index] = rc.res
	}
	run.Duration = time.Since(start)

	log.Info("run finished",
		zap.Int("platforms", len(platforms)),
		zap.Int("failed", run.Failed()),
		zap.Duration("duration", run.Duration))

	if err := ctx.Err(); err != nil {
		return run, err
	}
	return run, nil
}

func (p *Pipeline) processPlatform(ctx context.Context, runLog *logger.Logger, target platform.Platform, core generator.CoreMessage, req Request) PlatformResult {
	start := time.Now()
	log := runLog.WithPlatform(target.Name)
	result := PlatformResult{Platform: target.Name, Selected: -1}

	fail := func(err error) PlatformResult {
		result.Error = err.Error()
		result.Selected = -1
		result.Latency = time.Since(start)
		log.Warn("platform failed", zap.Error(err))
		p.emit(Event{Platform: target.Name, Stage: StageFailed, Err: err})
		return result
	}

	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	variations := 1
	if req.ABTesting {
		variations = p.config.Variations
	}

	p.emit(Event{Platform: target.Name, Stage: StageGenerate})
	raw, err := generator.Generate(ctx, p.client, generator.Request{
		Platform:   target,
		Audience:   req.Audience,
		Core:       core,
		Variations: variations,
	})
	if err != nil {
		return fail(err)
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	humanized := raw
	if !p.config.NoHumanize {
		p.emit(Event{Platform: target.Name, Stage: StageHumanize})
		humanized = p.humanize(log, raw)
	}

	result.Drafts = make([]Draft, len(raw))
	for i := range raw {
		result.Drafts[i] = Draft{Raw: raw[i], Text: humanized[i]}
	}
	result.Selected = 0

	if len(result.Drafts) > 1 && p.critic != nil {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		p.emit(Event{Platform: target.Name, Stage: StageCritic})
		verdict, err := p.critic.Choose(ctx, target.Name, req.Audience, humanized)
		if err != nil {
			// Keep the first variation; the drafts are still usable.
			log.Warn("critic failed", zap.Error(err))
			result.Reasoning = fmt.Sprintf("critic unavailable: %v", err)
		} else if verdict.Selected >= 0 && verdict.Selected < len(result.Drafts) {
			result.Selected = verdict.Selected
			result.Scores = verdict.Scores
			result.Reasoning = verdict.Reasoning
		}
	}

	p.emit(Event{Platform: target.Name, Stage: StageValidate})
	for i := range result.Drafts {
		result.Drafts[i].Metadata = p.validator.Validate(target, result.Drafts[i].Text)
	}

	if p.refiner != nil && !result.Best().Metadata.PlatformCompliant {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		p.emit(Event{Platform: target.Name, Stage: StageRefine})
		p.refine(ctx, log, target, &result)
	}

	best := result.Best()
	log.Info("platform done",
		zap.Int("drafts", len(result.Drafts)),
		zap.Int("selected", result.Selected),
		zap.Int("chars", best.Metadata.CharacterCount),
		zap.Bool("compliant", best.Metadata.PlatformCompliant))
	p.emit(Event{Platform: target.Name, Stage: StageDone})

	result.Latency = time.Since(start)
	return result
}

// refine revises the selected draft once. The revision replaces it only when
// it complies or is at least shorter; a refiner error keeps the draft.
func (p *Pipeline) refine(ctx context.Context, log *logger.Logger, target platform.Platform, result *PlatformResult) {
	best := result.Best()

	revised, err := p.refiner.Refine(ctx, target, best.Text, best.Metadata.Suggestions)
	if err != nil {
		log.Warn("refine failed", zap.Error(err))
		return
	}

	text := revised
	if !p.config.NoHumanize {
		text = p.humanize(log, []string{revised})[0]
	}
	meta := p.validator.Validate(target, text)
	if !meta.PlatformCompliant && meta.CharacterCount >= best.Metadata.CharacterCount {
		log.Info("revision discarded", zap.Int("chars", meta.CharacterCount))
		return
	}

	best.Raw = revised
	best.Text = text
	best.Metadata = meta
	result.Refined = true
}

// humanize rewrites drafts with links, mentions, hashtags and code shielded.
func (p *Pipeline) humanize(log *logger.Logger, drafts []string) []string {
	protected := make([]string, len(drafts))
	markers := make([][]string, len(drafts))
	for i, d := range drafts {
		protected[i], markers[i] = placeholder.Protect(d)
	}

	out := p.humanizer.HumanizeBatch(protected)
	for i := range out {
		if missing := placeholder.Validate(out[i], markers[i]); len(missing) > 0 {
			log.Warn("placeholders lost while humanizing", zap.Ints("missing", missing))
		}
		out[i] = placeholder.Restore(out[i], markers[i])
	}
	return out
}
