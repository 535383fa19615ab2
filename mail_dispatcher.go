package memberauth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// mailTask is one queued delivery. onFailure is the compensating action run
// when delivery fails or the task is dropped; it must be safe to call from
// any goroutine and must not block on the original request context.
type mailTask struct {
	to        string
	subject   string
	htmlBody  string
	onFailure func()
}

// mailDispatcher is the bounded worker pool behind fire-and-forget email
// dispatch. Enqueue never blocks the caller: when the queue is full the task
// is dropped and its compensation runs immediately, so the user can retry
// right away.
type mailDispatcher struct {
	cfg       MailerConfig
	mailer    Mailer
	logger    *slog.Logger
	metrics   *Metrics
	ch        chan mailTask
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func newMailDispatcher(cfg MailerConfig, mailer Mailer, logger *slog.Logger, metrics *Metrics) *mailDispatcher {
	if mailer == nil {
		return nil
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}

	d := &mailDispatcher{
		cfg:     cfg,
		mailer:  mailer,
		logger:  logger,
		metrics: metrics,
		ch:      make(chan mailTask, cfg.QueueSize),
		done:    make(chan struct{}),
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.run()
	}

	return d
}

func (d *mailDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case task := <-d.ch:
			d.deliver(task)
		case <-d.done:
			for {
				select {
				case task := <-d.ch:
					d.deliver(task)
				default:
					return
				}
			}
		}
	}
}

func (d *mailDispatcher) deliver(task mailTask) {
	ctx := context.Background()
	if d.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.SendTimeout)
		defer cancel()
	}

	if err := d.mailer.Send(ctx, task.to, task.subject, task.htmlBody); err != nil {
		d.metrics.Inc(MetricMailSendFailure)
		d.logger.Error("mail send failed, compensating", "to", task.to, "err", err)
		if task.onFailure != nil {
			task.onFailure()
		}
	}
}

// Enqueue submits a task without blocking. Returns false when the task was
// dropped (queue full or dispatcher closed); the compensation has already run
// in that case.
func (d *mailDispatcher) Enqueue(task mailTask) bool {
	if d == nil || d.closed.Load() {
		if task.onFailure != nil {
			task.onFailure()
		}
		return false
	}

	select {
	case d.ch <- task:
		return true
	case <-d.done:
	default:
	}

	d.dropped.Add(1)
	d.metrics.Inc(MetricMailSendFailure)
	d.logger.Warn("mail queue full, dropping send", "to", task.to)
	if task.onFailure != nil {
		task.onFailure()
	}
	return false
}

// Close drains queued tasks and stops the workers.
func (d *mailDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

func (d *mailDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

// verificationEmailBody renders the minimal HTML body of the code email.
// Anything fancier belongs to the Mailer implementation, not the core.
func verificationEmailBody(code string, ttlMinutes int64) string {
	return fmt.Sprintf(
		"<html><body><p>Your verification code is <strong>%s</strong>.</p>"+
			"<p>It is valid for %d minutes. If you did not request it, ignore this email.</p></body></html>",
		code, ttlMinutes,
	)
}
