package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ktrillos2/brahneyker/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrStateNotFound = errors.New("conversation state not found")

const (
	conversationKeyPrefix = "conversation:"
	turnLockKeyPrefix     = "conversation-lock:"

	// turnLockTTL bounds how long a crashed turn can keep an actor locked.
	turnLockTTL = 15 * time.Second
)

type IConversationStore interface {
	GetState(ctx context.Context, phone string) (entity.ConversationState, error)
	UpsertState(ctx context.Context, state entity.ConversationState) error
	DeleteState(ctx context.Context, phone string) error
	AcquireTurnLock(ctx context.Context, phone string) (bool, error)
	ReleaseTurnLock(ctx context.Context, phone string) error
}

type conversationStore struct {
	client *redis.Client
}

func New() IConversationStore {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &conversationStore{client: client}
}

func (r *conversationStore) GetState(ctx context.Context, phone string) (entity.ConversationState, error) {
	val, err := r.client.Get(ctx, conversationKeyPrefix+phone).Result()
	if errors.Is(err, redis.Nil) {
		return entity.ConversationState{}, ErrStateNotFound
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting conversation state for %s: %v", phone, err))
		return entity.ConversationState{}, err
	}

	var state entity.ConversationState
	if err := jsoniter.UnmarshalFromString(val, &state); err != nil {
		logrus.Error(fmt.Sprintf("Corrupt conversation state for %s: %v", phone, err))
		return entity.ConversationState{}, err
	}

	return state, nil
}

func (r *conversationStore) UpsertState(ctx context.Context, state entity.ConversationState) error {
	payload, err := jsoniter.MarshalToString(state)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, conversationKeyPrefix+state.Phone, payload, 0).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error setting conversation state for %s: %v", state.Phone, err))
		return err
	}

	return nil
}

func (r *conversationStore) DeleteState(ctx context.Context, phone string) error {
	if err := r.client.Del(ctx, conversationKeyPrefix+phone).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error deleting conversation state for %s: %v", phone, err))
		return err
	}

	return nil
}

// AcquireTurnLock takes the per-actor lease guarding one webhook turn, so two
// near-simultaneous messages from the same sender cannot interleave their
// reads and writes of the same state record.
func (r *conversationStore) AcquireTurnLock(ctx context.Context, phone string) (bool, error) {
	ok, err := r.client.SetNX(ctx, turnLockKeyPrefix+phone, "1", turnLockTTL).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error acquiring turn lock for %s: %v", phone, err))
		return false, err
	}

	return ok, nil
}

func (r *conversationStore) ReleaseTurnLock(ctx context.Context, phone string) error {
	return r.client.Del(ctx, turnLockKeyPrefix+phone).Err()
}
