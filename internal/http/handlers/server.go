package handlers

import (
	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"go.uber.org/zap"
)

const defaultMaxUploadBytes = 10 << 20

var (
	engine     *ledger.Engine
	reconciler *ledger.Reconciler
	analytics  *ledger.Analytics

	logger         = zap.NewNop()
	maxUploadBytes = int64(defaultMaxUploadBytes)
)

func SetEngine(e *ledger.Engine) {
	engine = e
}

func SetReconciler(r *ledger.Reconciler) {
	reconciler = r
}

func SetAnalytics(a *ledger.Analytics) {
	analytics = a
}

func SetLogger(l *zap.Logger) {
	logger = l.Named("http")
}

func SetMaxUploadBytes(n int64) {
	if n <= 0 {
		n = defaultMaxUploadBytes
	}
	maxUploadBytes = n
}
