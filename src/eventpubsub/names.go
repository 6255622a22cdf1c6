package eventpubsub

import "fmt"

const (
	TopicTicksGlobal = "market:ticks:global"
	TopicNewsGlobal  = "market:news:global"
)

// TopicTicks is the per-symbol tick feed.
func TopicTicks(symbol string) string {
	return fmt.Sprintf("market:ticks:%s", symbol)
}
