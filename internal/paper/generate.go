package paper

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxOutputTokens is the per-call completion budget. Each call carries only
// half the paper, so this comfortably covers the largest page counts.
const maxOutputTokens = 16000

// Completer is the completion transport the generator depends on. The
// concrete HTTP client lives in internal/llm; tests substitute fakes.
type Completer interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Generator runs the full two-call pipeline: compose prompts, fetch both
// halves, recover/parse each response, merge into a Document.
type Generator struct {
	client Completer
	log    *zap.Logger
}

func NewGenerator(client Completer, log *zap.Logger) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("completion client is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{client: client, log: log}, nil
}

// Generate produces the merged Document for one request. The two halves are
// fetched concurrently; they share no state and the merge is insensitive to
// completion order. Any transport or parse failure aborts the whole attempt —
// no partial Document is ever returned.
//
// fallbackName/fallbackAffiliation seed the placeholder authors entry; the
// caller is expected to overwrite Authors with verified user data.
func (g *Generator) Generate(ctx context.Context, req Request, fallbackName, fallbackAffiliation string) (*Document, error) {
	runID := uuid.NewString()
	prompts := req.Prompts()

	g.log.Info("generating paper",
		zap.String("run_id", runID),
		zap.String("title", req.Title),
		zap.Int("pages", req.Pages),
		zap.Bool("humanize", req.Humanize))

	var halves [2]DocumentHalf
	eg, egCtx := errgroup.WithContext(ctx)
	for i := range prompts {
		eg.Go(func() error {
			label := fmt.Sprintf("Part %d", i+1)
			raw, err := g.client.Complete(egCtx, prompts[i].System, prompts[i].User, maxOutputTokens)
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}

			half, tier, err := parseTiered(StripFences(raw), label)
			if err != nil {
				return err
			}
			if tier > tierDirect {
				g.log.Warn("response needed recovery",
					zap.String("run_id", runID),
					zap.String("label", label),
					zap.Int("tier", tier))
			}
			halves[i] = half
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	doc := Merge(halves[0], halves[1], fallbackName, fallbackAffiliation)
	g.log.Info("paper generated",
		zap.String("run_id", runID),
		zap.Int("sections", len(doc.Sections())),
		zap.Int("references", len(doc.References)))
	return &doc, nil
}
