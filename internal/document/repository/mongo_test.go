package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBSONTime_MatchesStoredPrecision(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)
	got := bsonTime(at)
	assert.Equal(t, 123000000, got.Nanosecond())

	raw, err := bson.Marshal(bson.M{"t": got})
	assert.NoError(t, err)
	var back struct {
		T primitive.DateTime `bson:"t"`
	}
	assert.NoError(t, bson.Unmarshal(raw, &back))
	assert.True(t, got.Equal(back.T.Time()))
}
