package service

import (
	"context"
	"testing"
	"time"

	"hr-faq-be/internal/entity"
	"hr-faq-be/internal/pkg/logger"
	"hr-faq-be/pkg/rag/retrieval"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHitIsWrittenByConsumer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db := newMemoryDB()
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	defer pubSub.Close()

	consumer := NewConsumerService(pubSub, InteractionTopic, fakeFactory{db}, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	dep := int64(2)
	recorder := NewPublisherService(InteractionTopic, pubSub, logger.NewNopLogger())
	recorder.RecordCacheHit(ctx, "s1", retrieval.Match{ID: 7, Question: "vacation?", DepartmentID: &dep, Similarity: 0.88})

	require.Eventually(t, func() bool {
		n, _ := fakeLogs{db}.Count(ctx)
		return n == 1
	}, time.Second, 10*time.Millisecond)

	db.mu.Lock()
	defer db.mu.Unlock()
	row := db.logs[0]
	assert.Equal(t, "s1", row.SessionId)
	assert.Equal(t, int64(7), *row.QuestionId)
	assert.Equal(t, &dep, row.DepartmentId)
	assert.Equal(t, entity.InteractionCacheHit, row.Kind)
	assert.InDelta(t, 0.88, row.Similarity, 1e-9)
}

func TestEmployeeDirectoryAdapter(t *testing.T) {
	db := newMemoryDB()
	ctx := context.Background()
	hr := &entity.Department{Id: 1, Name: "Human Resources", Head: "Mona"}
	it := &entity.Department{Id: 2, Name: "IT", Head: "Omar"}
	db.departments = []*entity.Department{it, hr}
	db.employees[1001] = &entity.Employee{Id: 1001, Name: "Sara", DepartmentId: 2, RemainingVacations: 12, Department: it}

	dir := NewEmployeeDirectory(fakeFactory{db})

	emp, found, err := dir.FindEmployee(ctx, 1001)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 12, emp.RemainingVacations)
	assert.Equal(t, "IT", emp.DepartmentName)
	assert.Equal(t, "Omar", emp.DepartmentHead)

	_, found, err = dir.FindEmployee(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, found)

	dep, found, err := dir.FindDepartmentByName(ctx, "human")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Mona", dep.Head)

	deps, err := dir.ListDepartments(ctx)
	require.NoError(t, err)
	require.Len(t, deps, 2)
	assert.Equal(t, "Human Resources", deps[0].Name)
}

func TestAnswerStoreInsert(t *testing.T) {
	db := newMemoryDB()
	store := NewAnswerStore(fakeFactory{db})

	id, err := store.InsertQuestion(context.Background(), retrieval.Record{
		Text:   "unknown",
		Answer: retrieval.NotAnswered,
		Status: retrieval.StatusPending,
	})
	require.NoError(t, err)

	q := db.questions[id]
	require.NotNil(t, q)
	assert.Equal(t, entity.QuestionPending, q.Status)
	assert.Equal(t, entity.NotAnswered, *q.Answer)
}
