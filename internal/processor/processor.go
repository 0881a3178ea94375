// Package processor executes dequeued webhook messages: the voice-note
// pipeline for known users, onboarding for email replies, and the greeting
// for everything else.
package processor

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/maazahmad/spendtrace/internal/ai"
	"github.com/maazahmad/spendtrace/internal/jobs"
	"github.com/maazahmad/spendtrace/internal/media"
	"github.com/maazahmad/spendtrace/internal/router"
	"github.com/maazahmad/spendtrace/internal/users"
	"github.com/maazahmad/spendtrace/internal/whatsapp"
)

const (
	replyWelcome  = "👋 Welcome! I don't have a ledger for you yet. Please reply with your *email address* to set one up."
	replyGreeting = "👋 *SpendTrace AI is Active!*\n\n" +
		"🎙️ Send a *voice note* to log an expense.\n" +
		"📧 Send your *email* to set up your ledger."
	replyErrorPrefix = "❌ Error: "
)

// Onboarder runs the provisioning flow for a new user.
type Onboarder interface {
	Onboard(ctx context.Context, from, email string) error
}

// Processor is the job handler wired into the queue consumer.
type Processor struct {
	users       users.Store
	messenger   whatsapp.Messenger
	transcriber ai.Transcriber
	analyzer    ai.Analyzer
	router      *router.Router
	onboarder   Onboarder
	archiver    media.Archiver
	log         zerolog.Logger
}

// Options collects the processor's collaborators. Archiver may be nil, which
// disables voice-note archival.
type Options struct {
	Users       users.Store
	Messenger   whatsapp.Messenger
	Transcriber ai.Transcriber
	Analyzer    ai.Analyzer
	Router      *router.Router
	Onboarder   Onboarder
	Archiver    media.Archiver
}

func New(opts Options, log zerolog.Logger) *Processor {
	return &Processor{
		users:       opts.Users,
		messenger:   opts.Messenger,
		transcriber: opts.Transcriber,
		analyzer:    opts.Analyzer,
		router:      opts.Router,
		onboarder:   opts.Onboarder,
		archiver:    opts.Archiver,
		log:         log,
	}
}

// Handle processes one job. Failures are contained here: the user gets an
// error reply and the job completes, because a retry would repeat ledger
// side effects.
func (p *Processor) Handle(ctx context.Context, job *jobs.ProcessMessageJob) error {
	log := p.log.With().
		Str("job_id", job.JobID).
		Str("message_id", job.MessageID).
		Str("from", job.From).
		Str("kind", string(job.Kind)).
		Logger()

	switch job.Kind {
	case jobs.MessageKindAudio:
		p.handleAudio(ctx, log, job)
	case jobs.MessageKindOnboard:
		if err := p.onboarder.Onboard(ctx, job.From, job.Body); err != nil {
			log.Error().Err(err).Msg("Onboarding failed")
		}
	case jobs.MessageKindGreeting:
		p.reply(ctx, log, job.From, replyGreeting)
	default:
		log.Warn().Msg("Unknown job kind, dropping")
	}
	return nil
}

func (p *Processor) handleAudio(ctx context.Context, log zerolog.Logger, job *jobs.ProcessMessageJob) {
	user, err := p.users.FindByHandle(ctx, job.From)
	if errors.Is(err, users.ErrNotFound) {
		p.reply(ctx, log, job.From, replyWelcome)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("User lookup failed")
		p.reply(ctx, log, job.From, replyErrorPrefix+"could not look up your ledger")
		return
	}

	url, err := p.messenger.GetMediaURL(ctx, job.MediaID)
	if err != nil {
		log.Error().Err(err).Msg("Media URL resolution failed")
		p.reply(ctx, log, job.From, replyErrorPrefix+"could not fetch your voice note")
		return
	}

	audio, err := p.messenger.Download(ctx, url)
	if err != nil {
		log.Error().Err(err).Msg("Media download failed")
		p.reply(ctx, log, job.From, replyErrorPrefix+"could not fetch your voice note")
		return
	}

	if p.archiver != nil {
		if uri, err := p.archiver.ArchiveVoiceNote(ctx, job.From, job.MessageID, audio); err != nil {
			log.Warn().Err(err).Msg("Voice note archival failed")
		} else {
			log.Debug().Str("uri", uri).Msg("Voice note archived")
		}
	}

	transcript, err := p.transcriber.Transcribe(ctx, audio, "audio/ogg")
	if err != nil {
		log.Error().Err(err).Msg("Transcription failed")
		p.reply(ctx, log, job.From, replyErrorPrefix+"could not understand your voice note")
		return
	}
	log.Info().Str("transcript", transcript).Msg("Voice note transcribed")

	intent, err := p.analyzer.AnalyzeIntent(ctx, transcript)
	if err != nil {
		log.Error().Err(err).Msg("Intent analysis failed")
		p.reply(ctx, log, job.From, replyErrorPrefix+"could not understand your request")
		return
	}

	reply, err := p.router.Route(ctx, intent, user.SpreadsheetID)
	if err != nil {
		log.Error().Err(err).Str("intent", string(intent.Kind)).Msg("Intent routing failed")
		p.reply(ctx, log, job.From, replyErrorPrefix+err.Error())
		return
	}

	p.reply(ctx, log, job.From, reply)
}

func (p *Processor) reply(ctx context.Context, log zerolog.Logger, to, text string) {
	if err := p.messenger.SendText(ctx, to, text); err != nil {
		log.Warn().Err(err).Msg("Reply delivery failed")
	}
}
