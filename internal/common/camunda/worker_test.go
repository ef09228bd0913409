package camunda

import (
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"admissions-platform/internal/common/config"
)

func TestWorkerSet_DisabledWorkerNotStarted(t *testing.T) {
	set := NewWorkerSet(nil, zaptest.NewLogger(t))

	called := false
	set.Start("categorize-colleges", config.WorkerConfig{Enabled: false}, func(worker.JobClient, entities.Job) {
		called = true
	})

	assert.Empty(t, set.Running())
	assert.False(t, called)

	set.Close()
	assert.Empty(t, set.Running())
}
