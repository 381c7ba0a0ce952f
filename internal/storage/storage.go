// Package storage persists trending observations and user-context snapshots in
// a JSON-file key-value store. Durability is best-effort: every caller treats a
// storage error as "no data", in-memory state stays authoritative.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/keshon/datastore"
)

const trendingKeepLimit = 200

type Storage struct {
	ds *datastore.DataStore
}

// TrendingObservation is one recorded topic word for a conversation.
type TrendingObservation struct {
	Word       string    `json:"word"`
	ObservedAt time.Time `json:"observed_at"`
}

// UserContext is a per-(conversation,user) interaction snapshot.
type UserContext struct {
	UserID           string    `json:"user_id"`
	LastTopic        string    `json:"last_topic,omitempty"`
	Sentiment        string    `json:"sentiment,omitempty"`
	LastInteraction  time.Time `json:"last_interaction"`
	InteractionCount int       `json:"interaction_count"`
}

// Record is everything stored per conversation.
type Record struct {
	Trending []TrendingObservation  `json:"trending"`
	Users    map[string]UserContext `json:"users"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func (s *Storage) getOrCreateRecord(conversationID string) (*Record, error) {
	data, exists := s.ds.Get(conversationID)
	if !exists {
		rec := &Record{Users: map[string]UserContext{}}
		s.ds.Add(conversationID, rec)
		return rec, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}

	var record Record
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("error unmarshalling to *Record: %w", err)
	}
	if record.Users == nil {
		record.Users = map[string]UserContext{}
	}
	if len(record.Trending) > trendingKeepLimit {
		record.Trending = record.Trending[len(record.Trending)-trendingKeepLimit:]
	}
	return &record, nil
}

// AppendTrending records one topic word observation for a conversation.
func (s *Storage) AppendTrending(conversationID, word string, at time.Time) error {
	record, err := s.getOrCreateRecord(conversationID)
	if err != nil {
		return err
	}
	record.Trending = append(record.Trending, TrendingObservation{Word: word, ObservedAt: at})
	s.ds.Add(conversationID, record)
	return nil
}

// FetchTrending returns words observed within the window ending at now,
// oldest first.
func (s *Storage) FetchTrending(conversationID string, window time.Duration, now time.Time) ([]string, error) {
	record, err := s.getOrCreateRecord(conversationID)
	if err != nil {
		return nil, err
	}
	cutoff := now.Add(-window)
	var words []string
	for _, obs := range record.Trending {
		if obs.ObservedAt.After(cutoff) {
			words = append(words, obs.Word)
		}
	}
	return words, nil
}

// SaveUserContext upserts the snapshot for one user in a conversation.
func (s *Storage) SaveUserContext(conversationID string, ctx UserContext) error {
	record, err := s.getOrCreateRecord(conversationID)
	if err != nil {
		return err
	}
	record.Users[ctx.UserID] = ctx
	s.ds.Add(conversationID, record)
	return nil
}

// BumpUser updates a user's snapshot after an interaction: bumps the counter,
// stamps the time, and overwrites topic/sentiment when non-empty.
func (s *Storage) BumpUser(conversationID, userID, topic, sentiment string, now time.Time) error {
	record, err := s.getOrCreateRecord(conversationID)
	if err != nil {
		return err
	}
	ctx := record.Users[userID]
	ctx.UserID = userID
	ctx.InteractionCount++
	ctx.LastInteraction = now
	if topic != "" {
		ctx.LastTopic = topic
	}
	if sentiment != "" {
		ctx.Sentiment = sentiment
	}
	record.Users[userID] = ctx
	s.ds.Add(conversationID, record)
	return nil
}

// FetchUserContext returns the stored snapshot, or a zero one when absent.
func (s *Storage) FetchUserContext(conversationID, userID string) (UserContext, error) {
	record, err := s.getOrCreateRecord(conversationID)
	if err != nil {
		return UserContext{}, err
	}
	ctx, ok := record.Users[userID]
	if !ok {
		return UserContext{UserID: userID}, nil
	}
	return ctx, nil
}

// PruneTrending drops observations older than maxAge for every conversation
// we have touched this session.
func (s *Storage) PruneTrending(conversationIDs []string, maxAge time.Duration, now time.Time) error {
	cutoff := now.Add(-maxAge)
	for _, id := range conversationIDs {
		record, err := s.getOrCreateRecord(id)
		if err != nil {
			return err
		}
		kept := record.Trending[:0]
		for _, obs := range record.Trending {
			if obs.ObservedAt.After(cutoff) {
				kept = append(kept, obs)
			}
		}
		record.Trending = kept
		s.ds.Add(id, record)
	}
	return nil
}
