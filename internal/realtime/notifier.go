package realtime

import (
	"context"
	"fmt"

	"market-pos/logger"
	"market-pos/monitoring"
	"market-pos/utils"

	pubnub "github.com/pubnub/go/v7"
	"go.uber.org/zap"
)

const (
	OperatorChannel     = "pos-operator"
	vendorChannelPrefix = "pos-vendor-"

	notifyQueueSize = 256
)

func VendorChannel(vendorID string) string {
	return vendorChannelPrefix + vendorID
}

type Publisher interface {
	Publish(channel string, message any) error
}

type PubNubPublisher struct {
	pn *pubnub.PubNub
}

func NewPubNubPublisher(publishKey, subscribeKey, secretKey, userID string) *PubNubPublisher {
	cfg := pubnub.NewConfigWithUserId(pubnub.UserId(userID))
	cfg.PublishKey = publishKey
	cfg.SubscribeKey = subscribeKey
	cfg.SecretKey = secretKey
	return &PubNubPublisher{pn: pubnub.NewPubNub(cfg)}
}

func (p *PubNubPublisher) Publish(channel string, message any) error {
	_, st, err := p.pn.Publish().
		Channel(channel).
		Message(message).
		Execute()
	if err != nil {
		return err
	}
	if st.StatusCode >= 400 {
		return fmt.Errorf("pubnub publish to %s: status %d", channel, st.StatusCode)
	}
	return nil
}

// Notifier forwards change events to the operator channel and, when the
// event carries a vendor, to that vendor's channel. Failures are logged only.
type Notifier struct {
	publisher Publisher
	breaker   *utils.CircuitBreaker
	queue     chan ChangeEvent
}

func NewNotifier(publisher Publisher, breaker *utils.CircuitBreaker) *Notifier {
	return &Notifier{
		publisher: publisher,
		breaker:   breaker,
		queue:     make(chan ChangeEvent, notifyQueueSize),
	}
}

// Attach queues hub events for Run. Record hooks never wait on PubNub; when
// the queue is full the event is dropped.
func (n *Notifier) Attach(h *Hub) {
	h.Subscribe(n.enqueue)
}

func (n *Notifier) enqueue(ev ChangeEvent) {
	select {
	case n.queue <- ev:
	default:
		monitoring.TrackPublish("queue", "dropped")
		logger.GetLogger().Warn("Realtime queue full, dropping change event",
			zap.String("collection", ev.Collection),
			zap.String("record_id", ev.RecordID),
		)
	}
}

// Run publishes queued events until ctx is done.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-n.queue:
			n.Notify(ctx, ev)
		}
	}
}

func (n *Notifier) Notify(ctx context.Context, ev ChangeEvent) {
	n.send(ctx, OperatorChannel, "operator", ev)
	if ev.VendorID != "" {
		n.send(ctx, VendorChannel(ev.VendorID), "vendor", ev)
	}
}

func (n *Notifier) send(ctx context.Context, channel, kind string, ev ChangeEvent) {
	message := map[string]any{
		"type":       "change",
		"collection": ev.Collection,
		"action":     ev.Action,
		"record_id":  ev.RecordID,
		"vendor_id":  ev.VendorID,
		"at":         ev.At,
	}

	err := n.breaker.Call(func() error {
		return n.publisher.Publish(channel, message)
	})
	if err != nil {
		monitoring.TrackPublish(kind, "failed")
		logger.FromContext(ctx).Warn("Failed to publish change event",
			zap.String("channel", channel),
			zap.String("collection", ev.Collection),
			zap.String("breaker", n.breaker.State().String()),
			zap.Error(err),
		)
		return
	}
	monitoring.TrackPublish(kind, "ok")
}
