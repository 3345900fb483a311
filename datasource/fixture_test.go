package datasource

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lalallama/proposaldesk/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockDir = "public/mock"

var fixtureFiles = map[string]string{
	"evaluation.create.json": `{"proposalId":"p-42","status":"queued","progress":0,"estNextUpdateSec":20}`,
	"report-p-42.json":       `{"proposalId":"p-42","status":"done","progress":100,"sections":[{"title":"Budget","score":4}]}`,
	"report-p-42.pdf":        "%PDF-1.4 fake report",
	"chat.send-p-abc.json":   `{"reply":"abc"}`,
	"chat.send-p-def.json":   `{"reply":"def"}`,
	"chat.send-p-ghi.json":   `{"reply":"ghi"}`,
	"chat.history-p-42.json": `{"messages":[{"role":"user","content":"hi"}]}`,
	"chat.history-p-1.json":  `[{"role":"user","content":"hi"}]`,
	"broken.json":            `{"reply":`,
}

func newFixtureFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range fixtureFiles {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(mockDir, name), []byte(content), 0o644))
	}
	return fs
}

// recordingSleeper returns immediately and remembers what it was asked to wait.
type recordingSleeper struct {
	mu        sync.Mutex
	durations []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations = append(r.durations, d)
	return nil
}

func (r *recordingSleeper) Durations() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.durations...)
}

func newTestFixtureSource(t *testing.T) (*FixtureSource, *recordingSleeper) {
	sleeper := &recordingSleeper{}
	return NewFixtureSource(newFixtureFs(t), mockDir, WithSleeper(sleeper.Sleep)), sleeper
}

func TestFixtureSource(t *testing.T) {
	ctx := context.Background()

	t.Run("reports mock mode", func(t *testing.T) {
		source, _ := newTestFixtureSource(t)
		assert.Equal(t, model.ModeMock, source.Mode())
	})

	t.Run("creates an evaluation from the fixture after the evaluation delay", func(t *testing.T) {
		source, sleeper := newTestFixtureSource(t)
		doc, err := source.CreateEvaluation(ctx, EvaluationPayload(`{"files":["a.pdf"]}`))
		require.NoError(t, err)
		assert.Equal(t, NewDocument(map[string]interface{}{"proposalId": "p-42", "status": "queued", "progress": float64(0), "estNextUpdateSec": float64(20)}), doc)
		assert.Equal(t, []time.Duration{20 * time.Second}, sleeper.Durations())
	})

	t.Run("gets a report without any delay", func(t *testing.T) {
		source, sleeper := newTestFixtureSource(t)
		doc, err := source.GetReport(ctx, "p-42")
		require.NoError(t, err)
		assert.Equal(t, "done", doc.Status())
		assert.Equal(t, []interface{}{map[string]interface{}{"title": "Budget", "score": float64(4)}}, doc.Field("sections"))
		assert.Empty(t, sleeper.Durations())
	})

	t.Run("downloads the report PDF bytes unmodified", func(t *testing.T) {
		source, _ := newTestFixtureSource(t)
		pdf, err := source.DownloadReportPDF(ctx, "p-42")
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4 fake report"), pdf)
	})

	t.Run("gets chat history", func(t *testing.T) {
		source, _ := newTestFixtureSource(t)
		doc, err := source.GetChatHistory(ctx, "p-42")
		require.NoError(t, err)
		assert.Len(t, doc.Field("messages"), 1)
	})

	t.Run("returns array fixtures unmodified", func(t *testing.T) {
		source, _ := newTestFixtureSource(t)
		doc, err := source.GetChatHistory(ctx, "p-1")
		require.NoError(t, err)
		assert.Equal(t, []interface{}{map[string]interface{}{"role": "user", "content": "hi"}}, doc.Value())
		assert.Equal(t, "", doc.Status())
	})

	t.Run("fails with the resource key when a fixture is missing", func(t *testing.T) {
		source, _ := newTestFixtureSource(t)
		testCases := []struct {
			description string
			call        func() error
			resource    string
		}{
			{"report", func() error { _, err := source.GetReport(ctx, "p-404"); return err }, "report-p-404"},
			{"report PDF", func() error { _, err := source.DownloadReportPDF(ctx, "p-404"); return err }, "report-p-404.pdf"},
			{"chat history", func() error { _, err := source.GetChatHistory(ctx, "p-404"); return err }, "chat.history-p-404"},
		}
		for _, testCase := range testCases {
			t.Run(testCase.description, func(t *testing.T) {
				err := testCase.call()
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrFetchFailed)
				assert.Contains(t, err.Error(), testCase.resource)
				assert.Contains(t, err.Error(), "p-404")
			})
		}
	})

	t.Run("fails when the evaluation and chat fixtures are missing", func(t *testing.T) {
		source := NewFixtureSource(afero.NewMemMapFs(), mockDir, WithSleeper((&recordingSleeper{}).Sleep))

		_, err := source.CreateEvaluation(ctx, nil)
		assert.ErrorIs(t, err, ErrFetchFailed)
		assert.Contains(t, err.Error(), "evaluation.create")

		_, err = source.SendChatMessage(ctx, "p-42", "hi", 0)
		assert.ErrorIs(t, err, ErrFetchFailed)
		assert.Contains(t, err.Error(), "chat.send-p-abc")
	})

	t.Run("fails on a fixture that isn't valid JSON", func(t *testing.T) {
		source, _ := newTestFixtureSource(t)
		_, err := source.loadJSON(ctx, "broken", 0)
		var fetchErr *FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, "broken", fetchErr.Resource)
	})

	t.Run("refuses ids that would leave the mock directory", func(t *testing.T) {
		source, _ := newTestFixtureSource(t)
		_, err := source.GetReport(ctx, "../../etc/passwd")
		assert.ErrorIs(t, err, ErrFetchFailed)
	})
}

func TestFixtureSourceBundledFixtures(t *testing.T) {
	ctx := context.Background()
	source := NewFixtureSource(afero.NewOsFs(), "../public/mock", WithSleeper((&recordingSleeper{}).Sleep))

	t.Run("creates an evaluation", func(t *testing.T) {
		doc, err := source.CreateEvaluation(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "p-abc", doc.Field("proposalId"))
	})

	t.Run("gets the p-abc report", func(t *testing.T) {
		doc, err := source.GetReport(ctx, "p-abc")
		require.NoError(t, err)
		assert.Equal(t, "completed", doc.Status())
	})

	t.Run("downloads the p-abc report PDF", func(t *testing.T) {
		pdf, err := source.DownloadReportPDF(ctx, "p-abc")
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	})

	t.Run("answers every chat question", func(t *testing.T) {
		for _, questionCount := range []int{0, 1, 2} {
			doc, err := source.SendChatMessage(ctx, "p-abc", "why?", questionCount)
			require.NoError(t, err)
			assert.NotEmpty(t, doc.Field("content"))
		}
	})

	t.Run("gets the p-abc chat history", func(t *testing.T) {
		_, err := source.GetChatHistory(ctx, "p-abc")
		require.NoError(t, err)
	})
}

func TestFixtureSourceChatReplies(t *testing.T) {
	testCases := []struct {
		description   string
		questionCount int
		expected      string
	}{
		{"first question gets the abc reply", 0, "abc"},
		{"second question gets the def reply", 1, "def"},
		{"third question gets the ghi reply", 2, "ghi"},
		{"any later question keeps the ghi reply", 100, "ghi"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			source, sleeper := newTestFixtureSource(t)
			doc, err := source.SendChatMessage(context.Background(), "p-anything", "ignored", testCase.questionCount)
			require.NoError(t, err)
			assert.Equal(t, NewDocument(map[string]interface{}{"reply": testCase.expected}), doc)
			assert.Equal(t, []time.Duration{10 * time.Second}, sleeper.Durations())
		})
	}

	t.Run("ignores the proposal id and message", func(t *testing.T) {
		source, _ := newTestFixtureSource(t)
		first, err := source.SendChatMessage(context.Background(), "p-1", "hello", 1)
		require.NoError(t, err)
		second, err := source.SendChatMessage(context.Background(), "p-2", "something else", 1)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestFixtureSourceDelay(t *testing.T) {
	t.Run("does not resolve an evaluation before the delay elapses", func(t *testing.T) {
		requested := make(chan time.Duration, 1)
		release := make(chan struct{})
		gate := func(ctx context.Context, d time.Duration) error {
			requested <- d
			<-release
			return nil
		}
		source := NewFixtureSource(newFixtureFs(t), mockDir, WithSleeper(gate))

		var doc Document
		var err error
		done := make(chan struct{})
		go func() {
			doc, err = source.CreateEvaluation(context.Background(), nil)
			close(done)
		}()

		assert.Equal(t, 20*time.Second, <-requested)
		select {
		case <-done:
			t.Fatal("evaluation resolved before the delay elapsed")
		default:
		}

		close(release)
		<-done
		require.NoError(t, err)
		assert.Equal(t, "queued", doc.Status())
	})

	t.Run("gives up waiting when the context is canceled", func(t *testing.T) {
		source := NewFixtureSource(newFixtureFs(t), mockDir)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := source.SendChatMessage(ctx, "p-42", "hi", 0)
		assert.ErrorIs(t, err, ErrFetchFailed)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
