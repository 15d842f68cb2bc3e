package learning

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/ledgerwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection keeps documents by id and serves them back through a cursor.
type fakeCollection struct {
	findErr  error
	writeErr error
	docs     map[patternID]patternDocument
	order    []patternID
	writes   int
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{docs: make(map[patternID]patternDocument)}
}

func (f *fakeCollection) Find(_ context.Context, _ interface{}, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	docs := make([]interface{}, 0, len(f.order))
	for _, id := range f.order {
		docs = append(docs, f.docs[id])
	}
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

func (f *fakeCollection) BulkWrite(_ context.Context, models []mongo.WriteModel, _ ...*options.BulkWriteOptions) (*mongo.BulkWriteResult, error) {
	f.writes++
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	result := &mongo.BulkWriteResult{}
	for _, m := range models {
		replace, ok := m.(*mongo.ReplaceOneModel)
		if !ok {
			return nil, errors.New("unexpected write model")
		}
		doc, ok := replace.Replacement.(patternDocument)
		if !ok {
			return nil, errors.New("unexpected replacement document")
		}
		if replace.Upsert == nil || !*replace.Upsert {
			return nil, errors.New("expected upsert")
		}
		if _, exists := f.docs[doc.ID]; exists {
			result.ModifiedCount++
		} else {
			f.order = append(f.order, doc.ID)
			result.UpsertedCount++
		}
		f.docs[doc.ID] = doc
	}
	return result, nil
}

func TestMongoBackend_RoundTrip(t *testing.T) {
	coll := newFakeCollection()
	backend := newMongoBackendWithCollection("mongo:test.patterns", coll)
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, []model.LearningPattern{
		{PatternText: "Sonelgaz", AccountCode: "6061", Occurrences: 2, Confidence: 0.9347, LastUsedAt: fixedNow},
		{PatternText: "loy-#", AccountCode: "613", Occurrences: 1, Confidence: 0.8, LastUsedAt: fixedNow},
	}))
	assert.Contains(t, coll.docs, patternID{Key: "sonelgaz", AccountCode: "6061"})

	got, err := backend.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Sonelgaz", got[0].PatternText)
	assert.Equal(t, 2, got[0].Occurrences)
	assert.InDelta(t, 0.9347, got[0].Confidence, 1e-9)
	assert.True(t, fixedNow.Equal(got[0].LastUsedAt))
	assert.Equal(t, "613", got[1].AccountCode)
}

func TestMongoBackend_SaveEmptySkipsWrite(t *testing.T) {
	coll := newFakeCollection()
	backend := newMongoBackendWithCollection("mongo:test.patterns", coll)

	require.NoError(t, backend.Save(context.Background(), nil))
	assert.Zero(t, coll.writes)
	assert.NoError(t, backend.Close())
}

func TestMongoBackend_Errors(t *testing.T) {
	ctx := context.Background()
	coll := newFakeCollection()
	coll.findErr = errors.New("connection refused")
	coll.writeErr = errors.New("not primary")
	backend := newMongoBackendWithCollection("mongo:test.patterns", coll)

	_, err := backend.Load(ctx)
	assert.Error(t, err)

	err = backend.Save(ctx, []model.LearningPattern{{PatternText: "x", AccountCode: "613"}})
	assert.Error(t, err)
}

func TestMongoBackend_WithStore(t *testing.T) {
	coll := newFakeCollection()
	ctx := context.Background()

	store := NewStore(newMongoBackendWithCollection("mongo:test.patterns", coll), WithClock(fixedClock))
	store.Reinforce(ctx, "djezzy", "626", 0.9)
	store.Reinforce(ctx, "djezzy", "626", 0.9)
	assert.Len(t, coll.docs, 1)

	again := NewStore(newMongoBackendWithCollection("mongo:test.patterns", coll))
	got, err := again.Suggest(ctx, model.ExtractedRecord{Supplier: "Djezzy Spa"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "626", got[0].AccountCode)
}
