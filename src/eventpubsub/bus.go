package eventpubsub

import (
	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"

	"github.com/marketsim/marketsim/src/models"
)

// Bus fans simulation output out to in-process subscribers. Ticks go to
// the per-symbol topic and the global feed, news events to the news topic.
// Delivery is at-most-once: a missing subscriber is not an error.
type Bus struct {
	bus EventBus.Bus
}

func NewBus() *Bus {
	return &Bus{
		bus: EventBus.New(),
	}
}

func (b *Bus) PublishTick(tick *models.Tick) error {
	b.bus.Publish(TopicTicks(tick.Symbol), tick)
	b.bus.Publish(TopicTicksGlobal, tick)
	return nil
}

func (b *Bus) PublishNews(event *models.NewsEvent) error {
	b.bus.Publish(TopicNewsGlobal, event)
	return nil
}

// Subscribe registers an async callback on a topic.
func (b *Bus) Subscribe(topic string, callbackFn interface{}) error {
	if err := b.bus.SubscribeAsync(topic, callbackFn, false); err != nil {
		return err
	}

	log.Infof("Subscribed to topic %s", topic)
	return nil
}

func (b *Bus) Unsubscribe(topic string, callbackFn interface{}) error {
	return b.bus.Unsubscribe(topic, callbackFn)
}

// WaitAsync blocks until all async callbacks have drained. Used in tests
// and on shutdown.
func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}
