// Package triage turns a raw civic report into a classified, scored Issue.
//
// The pipeline asks the remote sentiment service first and falls back to
// the lexicon classifier when it is unavailable; category, key phrases and
// location hint always come from the lexicon. Classification is
// deterministic. Coordinates are not: they are jittered around a place
// anchor using the injected Rand.
package triage

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dalemusser/adarshgram/internal/app/system/htmlsanitize"
	"github.com/dalemusser/adarshgram/internal/app/system/metrics"
	"github.com/dalemusser/adarshgram/internal/app/triage/lexicon"
	"github.com/dalemusser/adarshgram/internal/app/triage/priority"
	"github.com/dalemusser/adarshgram/internal/app/triage/remote"
	"github.com/dalemusser/adarshgram/internal/domain/apperr"
	"github.com/dalemusser/adarshgram/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// LexiconConfidence is reported when the sentiment came from the lexicon.
const LexiconConfidence = 0.75

// Sentiment sources recorded on Issue.Analysis.
const (
	SourceRemote  = "remote"
	SourceLexicon = "lexicon"
)

const (
	maxTextRunes     = 5000
	maxLocationRunes = 200
)

// Photo is an image attached to a report.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Report is the raw input of a submission.
type Report struct {
	Text         string
	LocationName string
	Photo        *Photo
}

// SentimentOracle is the remote sentiment collaborator. ok is false when it
// could not answer.
type SentimentOracle interface {
	Classify(ctx context.Context, text string) (remote.Result, bool)
}

// ImageAnalyzer returns a severity hint in [0,1] for a photo.
type ImageAnalyzer interface {
	Severity(ctx context.Context, photo Photo) (float64, error)
}

// Rand is the randomness source for coordinate jitter. *math/rand.Rand
// satisfies it.
type Rand interface {
	Float64() float64
}

// Options configures a Pipeline. Every field is optional: Lexicon defaults
// to the built-in tables and Rand to a time-seeded source.
type Options struct {
	Lexicon      *lexicon.Classifier
	Remote       SentimentOracle
	Images       ImageAnalyzer
	ImageTimeout time.Duration
	Rand         Rand
	Now          func() time.Time
}

// Pipeline is safe for concurrent use.
type Pipeline struct {
	lex          *lexicon.Classifier
	oracle       SentimentOracle
	images       ImageAnalyzer
	imageTimeout time.Duration
	now          func() time.Time
	log          *zap.Logger

	randMu sync.Mutex
	rand   Rand
}

// New builds a Pipeline.
func New(opts Options, logger *zap.Logger) *Pipeline {
	p := &Pipeline{
		lex:          opts.Lexicon,
		oracle:       opts.Remote,
		images:       opts.Images,
		imageTimeout: opts.ImageTimeout,
		rand:         opts.Rand,
		now:          opts.Now,
		log:          logger,
	}
	if p.lex == nil {
		p.lex = lexicon.Default()
	}
	if p.rand == nil {
		p.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if p.now == nil {
		p.now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
	}
	if p.imageTimeout <= 0 {
		p.imageTimeout = 5 * time.Second
	}
	return p
}

// Triage validates and classifies r and returns a pending Issue. It does not
// persist anything.
func (p *Pipeline) Triage(ctx context.Context, r Report) (models.Issue, error) {
	text := htmlsanitize.PlainText(r.Text)
	if text == "" {
		return models.Issue{}, fmt.Errorf("%w: issue description is required", apperr.ErrValidation)
	}
	if utf8.RuneCountInString(text) > maxTextRunes {
		return models.Issue{}, fmt.Errorf("%w: issue description exceeds %d characters", apperr.ErrValidation, maxTextRunes)
	}
	location := htmlsanitize.PlainText(r.LocationName)
	if utf8.RuneCountInString(location) > maxLocationRunes {
		return models.Issue{}, fmt.Errorf("%w: location exceeds %d characters", apperr.ErrValidation, maxLocationRunes)
	}
	if !htmlsanitize.IsPlainText(r.Text) {
		p.log.Info("markup stripped from report text")
	}

	lex := p.lex.Classify(text)

	sentiment, confidence, source := lex.Sentiment, LexiconConfidence, SourceLexicon
	if p.oracle != nil {
		if res, ok := p.oracle.Classify(ctx, text); ok && models.IsValidSentiment(res.Sentiment) {
			sentiment, confidence, source = res.Sentiment, res.Confidence, SourceRemote
		}
	}

	var severity *float64
	if r.Photo != nil {
		severity = p.imageSeverity(ctx, *r.Photo)
	}

	issue := models.Issue{
		ID:           primitive.NewObjectID(),
		Text:         text,
		LocationName: location,
		Category:     lex.Category,
		Sentiment:    sentiment,
		Urgency:      priority.Score(lex.Category, sentiment, severity),
		Coordinates:  p.Coordinates(location),
		Analysis: models.Analysis{
			KeyPhrases:      lex.KeyPhrases,
			LocationHint:    lex.LocationHint,
			Confidence:      confidence,
			SentimentSource: source,
			ImageSeverity:   severity,
		},
		Status:    models.IssueStatusPending,
		CreatedAt: p.now(),
	}

	metrics.ReportsTriaged.WithLabelValues(issue.Category).Inc()
	metrics.SentimentSource.WithLabelValues(source).Inc()

	return issue, nil
}

// imageSeverity asks the analyzer for a hint. Any failure yields nil.
func (p *Pipeline) imageSeverity(ctx context.Context, photo Photo) *float64 {
	if p.images == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, p.imageTimeout)
	defer cancel()

	v, err := p.images.Severity(ctx, photo)
	if err != nil {
		p.log.Warn("image analysis failed, scoring without it",
			zap.String("filename", photo.Filename),
			zap.Error(err))
		return nil
	}
	if math.IsNaN(v) {
		return nil
	}
	v = math.Max(0, math.Min(1, v))
	return &v
}

/* ------------------------------ coordinates ------------------------------ */

type anchor struct {
	key string
	at  models.Coordinates
}

// placeAnchors are checked in order against the lowercased location name.
var placeAnchors = []anchor{
	{"school", models.Coordinates{Lat: 28.6149, Lng: 77.2095}},
	{"hospital", models.Coordinates{Lat: 28.6119, Lng: 77.2285}},
	{"water", models.Coordinates{Lat: 28.6239, Lng: 77.2185}},
	{"gram panchayat", models.Coordinates{Lat: 28.6139, Lng: 77.2090}},
}

// DefaultAnchor is the regional centre used when no place matches.
var DefaultAnchor = models.Coordinates{Lat: 28.6139, Lng: 77.2090}

// Jitter spans in degrees (the full width of the random offset).
const (
	PlaceJitter   = 0.01
	DefaultJitter = 0.1
)

// Coordinates derives a point for a location name: near a known place when
// the name mentions one, otherwise anywhere around DefaultAnchor.
func (p *Pipeline) Coordinates(locationName string) models.Coordinates {
	name := strings.ToLower(locationName)
	for _, a := range placeAnchors {
		if name != "" && strings.Contains(name, a.key) {
			return p.jitter(a.at, PlaceJitter)
		}
	}
	return p.jitter(DefaultAnchor, DefaultJitter)
}

func (p *Pipeline) jitter(c models.Coordinates, span float64) models.Coordinates {
	p.randMu.Lock()
	defer p.randMu.Unlock()
	return models.Coordinates{
		Lat: c.Lat + (p.rand.Float64()-0.5)*span,
		Lng: c.Lng + (p.rand.Float64()-0.5)*span,
	}
}
