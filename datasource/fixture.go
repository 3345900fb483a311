package datasource

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/lalallama/proposaldesk/model"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	log "github.com/sirupsen/logrus"
)

const (
	// The delays only make the UI's loading states visible during development.
	evaluationDelay = 20 * time.Second
	chatReplyDelay  = 10 * time.Second

	evaluationFixtureKey = "evaluation.create"
)

// Canned chat replies, picked by how many questions were already asked.
var chatReplyFixtureKeys = [...]string{
	"chat.send-p-abc",
	"chat.send-p-def",
	"chat.send-p-ghi",
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FixtureSource serves the static files in a mock directory.
// Files are named {resourceKey}.json or {resourceKey}.pdf.
type FixtureSource struct {
	fs    afero.Fs
	dir   string
	sleep Sleeper
}

type FixtureOption func(*FixtureSource)

func WithSleeper(sleeper Sleeper) FixtureOption {
	return func(s *FixtureSource) {
		s.sleep = sleeper
	}
}

func NewFixtureSource(fs afero.Fs, dir string, opts ...FixtureOption) *FixtureSource {
	s := &FixtureSource{
		fs:    fs,
		dir:   dir,
		sleep: sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FixtureSource) Mode() model.Mode {
	return model.ModeMock
}

func (s *FixtureSource) CreateEvaluation(ctx context.Context, _ EvaluationPayload) (Document, error) {
	return s.loadJSON(ctx, evaluationFixtureKey, evaluationDelay)
}

func (s *FixtureSource) GetReport(ctx context.Context, proposalID string) (Document, error) {
	return s.loadJSON(ctx, reportFixtureKey(proposalID), 0)
}

func (s *FixtureSource) DownloadReportPDF(ctx context.Context, proposalID string) ([]byte, error) {
	name := reportFixtureKey(proposalID) + ".pdf"
	return s.read(name, name)
}

// SendChatMessage ignores proposalID and message.
func (s *FixtureSource) SendChatMessage(ctx context.Context, proposalID string, message string, questionCount int) (Document, error) {
	return s.loadJSON(ctx, chatReplyFixtureKey(questionCount), chatReplyDelay)
}

func (s *FixtureSource) GetChatHistory(ctx context.Context, proposalID string) (Document, error) {
	return s.loadJSON(ctx, fmt.Sprintf("chat.history-%s", proposalID), 0)
}

func (s *FixtureSource) loadJSON(ctx context.Context, key string, delay time.Duration) (Document, error) {
	if delay > 0 {
		log.WithField("resource", key).Debugf("delaying mock response by %s", delay)
		if err := s.sleep(ctx, delay); err != nil {
			return Document{}, newFetchError(key, 0, err)
		}
	}
	body, err := s.read(key, key+".json")
	if err != nil {
		return Document{}, err
	}
	doc, err := decodeDocument(body)
	if err != nil {
		return Document{}, newFetchError(key, 0, errors.Wrap(err, "decoding fixture"))
	}
	return doc, nil
}

func (s *FixtureSource) read(resource string, name string) ([]byte, error) {
	// Keys embed caller-supplied ids; keep them inside the mock directory.
	if filepath.Base(name) != name {
		return nil, newFetchError(resource, 0, errors.New("invalid fixture name"))
	}
	path := filepath.Join(s.dir, name)
	log.WithField("resource", resource).WithField("path", path).Debug("loading fixture")
	body, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, newFetchError(resource, 0, err)
	}
	return body, nil
}

func reportFixtureKey(proposalID string) string {
	return fmt.Sprintf("report-%s", proposalID)
}

// 0 and 1 get their own reply; every later question gets the last one.
func chatReplyFixtureKey(questionCount int) string {
	switch questionCount {
	case 0:
		return chatReplyFixtureKeys[0]
	case 1:
		return chatReplyFixtureKeys[1]
	default:
		return chatReplyFixtureKeys[2]
	}
}
