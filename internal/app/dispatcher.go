package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/interview_scheduler/internal/model"
	"go.uber.org/zap"
)

// SendFunc доставляет одно уведомление о бронировании
type SendFunc func(ctx context.Context, reservation *model.Reservation) error

// NotificationDispatcher доставляет уведомления о бронированиях в фоне,
// чтобы медленный мессенджер не задерживал ответ кандидату
type NotificationDispatcher struct {
	send        SendFunc
	logger      *zap.Logger
	queue       chan *model.Reservation
	sendTimeout time.Duration

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewNotificationDispatcher создаёт диспетчер с очередью размера queueSize
func NewNotificationDispatcher(send SendFunc, queueSize int, logger *zap.Logger) *NotificationDispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &NotificationDispatcher{
		send:        send,
		logger:      logger,
		queue:       make(chan *model.Reservation, queueSize),
		sendTimeout: 10 * time.Second,
		stopChan:    make(chan struct{}),
	}
}

// NotifyBooked ставит уведомление в очередь. При полной очереди сообщение
// отбрасывается: бронирование уже сохранено
func (d *NotificationDispatcher) NotifyBooked(ctx context.Context, reservation *model.Reservation) {
	select {
	case d.queue <- reservation:
	default:
		d.logger.Warn("Notification queue is full, dropping message",
			zap.String("candidate_id", reservation.CandidateID),
		)
	}
}

// Start запускает обработчик очереди
func (d *NotificationDispatcher) Start(ctx context.Context) {
	d.logger.Info("Starting notification dispatcher")

	d.wg.Add(1)
	go d.run(ctx)
}

// Stop останавливает обработчик и ждёт текущую отправку
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.logger.Info("Stopping notification dispatcher")
		close(d.stopChan)
	})
	d.wg.Wait()
}

func (d *NotificationDispatcher) run(ctx context.Context) {
	defer d.wg.Done()

	for {
		select {
		case reservation := <-d.queue:
			d.deliver(ctx, reservation)
		case <-d.stopChan:
			d.logger.Info("Notification dispatcher stopped")
			return
		case <-ctx.Done():
			d.logger.Info("Notification dispatcher cancelled")
			return
		}
	}
}

func (d *NotificationDispatcher) deliver(ctx context.Context, reservation *model.Reservation) {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.send(sendCtx, reservation); err != nil {
		d.logger.Error("Failed to send booking notification",
			zap.String("candidate_id", reservation.CandidateID),
			zap.Error(err),
		)
		return
	}

	d.logger.Debug("Booking notification sent", zap.String("candidate_id", reservation.CandidateID))
}
