package graph

import (
	"github.com/graphql-go/graphql"

	"taskboard-api/domain"
	"taskboard-api/pubsub"
)

// subscribeTaskUpdated attaches a live event feed for one board. Any active
// authenticated user may subscribe; board ownership is not re-verified at
// attach time.
func (r *Resolver) subscribeTaskUpdated(p graphql.ResolveParams) (interface{}, error) {
	if _, err := r.activeCaller(p.Context); err != nil {
		return nil, err
	}
	boardID := p.Args["boardId"].(string)
	events := r.Bus.Subscribe(p.Context, pubsub.TaskTopic(boardID))

	out := make(chan interface{})
	go func() {
		defer close(out)
		for ev := range events {
			select {
			case out <- ev:
			case <-p.Context.Done():
				return
			}
		}
	}()
	return out, nil
}

// resolveTaskEvent projects the bus event delivered as the field source.
func (r *Resolver) resolveTaskEvent(p graphql.ResolveParams) (interface{}, error) {
	ev, ok := p.Source.(domain.TaskEvent)
	if !ok {
		return nil, nil
	}
	return taskEventPayload(ev), nil
}
