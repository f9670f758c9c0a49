// Package txn runs multi-collection writes inside a MongoDB transaction and
// falls back to plain sequential writes on deployments without transaction
// support (standalone servers).
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server error codes that mean "transactions are unavailable here".
var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation
	51:  true, // IllegalOperation on older servers
	263: true, // OperationNotSupportedInTransaction
}

// keyword pairs that identify the same condition when only a message is
// available.
var notSupportedPhrases = [][2]string{
	{"transaction", "replica set"},
	{"session", "not supported"},
	{"transaction", "session"},
	{"illegal operation", "transaction"},
}

// IsNotSupported reports whether err means the deployment cannot run
// transactions.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && notSupportedCodes[ce.Code] {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range notSupportedPhrases {
		if strings.Contains(msg, p[0]) && strings.Contains(msg, p[1]) {
			return true
		}
	}
	return false
}

// Run executes fn inside a transaction. When the server rejects the
// transaction as unsupported, fn is run once more without one.
func Run(ctx context.Context, client *mongo.Client, logger *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		logger.Debug("transactions not supported, writing without one", zap.Error(err))
		return fn(ctx)
	}
	return err
}
