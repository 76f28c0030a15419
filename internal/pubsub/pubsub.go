package pubsub

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"monacobundle.dev/internal/identity"
)

var (
	ErrTopicClosed      error = errors.New("tried to operate on a closed topic")
	ErrTopicDoesntExist error = errors.New("tried to operate on a topic that doesn't exist")
	ErrTopicExists      error = errors.New("tried to create a topic that already exists")
	ErrReservedTopic    error = errors.New("tried to create a topic in a reserved category")
)

var (
	MetaTopic TopicId = TopicId{Category: "/topics", Key: "meta"}
)

// Subscriber channels are buffered; a subscriber that falls further behind
// than this misses messages instead of stalling the publisher.
const subscriberBuffer = 16

// Identifier of a topic
type TopicId identity.Id

func (topic TopicId) String() string {
	return (identity.Id)(topic).String()
}

type Topic struct {
	// `id` is only set at creation time and isn't written to afterwards.
	Id TopicId
	// `registry` is only set at creation time and isn't written to afterwards.
	registry *Registry

	// This mutex controls the reading and writing of the
	// `subscribers`, `counter`, `dropped` and `closed` fields.
	m sync.Mutex

	counter     int
	dropped     int
	closed      bool
	subscribers []chan string
}

type Subscription struct {
	Out   <-chan string
	topic *Topic
}

func (topic *Topic) addSubscriber(sub chan string) error {
	topic.m.Lock()
	defer topic.m.Unlock()

	if topic.closed {
		return fmt.Errorf("%w: %s", ErrTopicClosed, topic.Id.String())
	}

	topic.subscribers = append(topic.subscribers, sub)

	return nil
}

func (topic *Topic) removeSubscriber(sub <-chan string) {
	topic.m.Lock()
	defer topic.m.Unlock()

	writeIndex := 0
	for readIndex := 0; readIndex < len(topic.subscribers); readIndex++ {
		item := topic.subscribers[readIndex]
		if item == sub {
			close(item)
			continue
		}

		topic.subscribers[writeIndex] = item
		writeIndex += 1
	}

	topic.subscribers = topic.subscribers[:writeIndex]
}

func (topic *Topic) getInfo() TopicInfo {
	topic.m.Lock()
	defer topic.m.Unlock()

	return TopicInfo{
		Id:              topic.Id,
		Closed:          topic.closed,
		Count:           topic.counter,
		Dropped:         topic.dropped,
		SubscriberCount: len(topic.subscribers),
	}
}

func (topic *Topic) isClosed() bool {
	topic.m.Lock()
	defer topic.m.Unlock()

	return topic.closed
}

// Publish hands the message to every subscriber without blocking.
func (topic *Topic) Publish(message string) error {
	topic.m.Lock()
	defer topic.m.Unlock()

	if topic.closed {
		return fmt.Errorf("%w: %s", ErrTopicClosed, topic.Id.String())
	}

	topic.counter += 1
	for _, sub := range topic.subscribers {
		select {
		case sub <- message:
		default:
			topic.dropped += 1
		}
	}

	return nil
}

// PublishJson serializes data and publishes it.
func (topic *Topic) PublishJson(data any) error {
	message, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to serialize message for %s: %w", topic.Id.String(), err)
	}

	return topic.Publish(string(message))
}

func (topic *Topic) Close() {
	topic.m.Lock()
	if topic.closed {
		topic.m.Unlock()
		return
	}

	topic.closed = true
	for _, channel := range topic.subscribers {
		close(channel)
	}
	topic.subscribers = nil
	topic.m.Unlock()

	topic.registry.publishMeta("close", topic.Id)
}

type MetaTopicInfo struct {
	Kind string `json:"kind"`
	Data any    `json:"data"`
}

type Registry struct {
	m sync.Mutex

	metaTopic atomic.Pointer[Topic]

	topics map[string]*Topic
}

// NewRegistry creates a registry with its meta topic, which announces
// every topic that gets created or closed.
func NewRegistry() (*Registry, error) {
	r := &Registry{}
	if err := r.CreateMetaTopics(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Registry) publishMeta(kind string, data any) {
	meta := r.metaTopic.Load()
	if meta == nil {
		return
	}

	// The meta topic only closes with the registry, so an error here just
	// means nobody is left to hear about it.
	_ = meta.PublishJson(MetaTopicInfo{Kind: kind, Data: data})
}

func (r *Registry) CreateTopic(id TopicId) (*Topic, error) {
	if strings.HasPrefix(id.Category, MetaTopic.Category) {
		return nil, fmt.Errorf("%w: %s", ErrReservedTopic, id.String())
	}

	r.m.Lock()
	topic, err := r.createTopic(id)
	r.m.Unlock()

	if err != nil {
		return nil, err
	}

	r.publishMeta("create", id)
	return topic, nil
}

// Requires caller to take the lock
func (r *Registry) createTopic(id TopicId) (*Topic, error) {
	if r.topics == nil {
		r.topics = make(map[string]*Topic, 8)
	}

	key := id.String()
	if prev := r.topics[key]; prev != nil && !prev.isClosed() {
		return nil, fmt.Errorf("%w: %s", ErrTopicExists, id.String())
	}

	topic := &Topic{Id: id, registry: r}
	r.topics[key] = topic

	return topic, nil
}

func (r *Registry) CreateMetaTopics() error {
	r.m.Lock()
	defer r.m.Unlock()

	meta, err := r.createTopic(MetaTopic)
	if err != nil {
		return err
	}
	r.metaTopic.Store(meta)

	return nil
}

func (r *Registry) Subscribe(id TopicId) (Subscription, error) {
	key := id.String()

	r.m.Lock()
	topic := r.topics[key]
	r.m.Unlock()

	if topic == nil {
		return Subscription{}, fmt.Errorf("%w: %s", ErrTopicDoesntExist, id.String())
	}

	channel := make(chan string, subscriberBuffer)

	if err := topic.addSubscriber(channel); err != nil {
		return Subscription{}, err
	}

	return Subscription{Out: channel, topic: topic}, nil
}

// Unsubscribe detaches the subscription and closes its channel.
func (sub *Subscription) Unsubscribe() {
	sub.topic.removeSubscriber(sub.Out)
}

type TopicInfo struct {
	Id              TopicId `json:"id"`
	Closed          bool    `json:"closed"`
	Count           int     `json:"count"`
	Dropped         int     `json:"dropped"`
	SubscriberCount int     `json:"subscriberCount"`
}

func (r *Registry) GetTopicInfo() map[string]TopicInfo {
	r.m.Lock()
	topics := make(map[string]*Topic, len(r.topics))
	for key, topic := range r.topics {
		topics[key] = topic
	}
	r.m.Unlock()

	out := make(map[string]TopicInfo, len(topics))
	for key, topic := range topics {
		out[key] = topic.getInfo()
	}

	return out
}
