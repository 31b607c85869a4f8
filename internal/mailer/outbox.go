package mailer

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

// bucketOutbox bucket с отправленными письмами
var bucketOutbox = []byte("outbox")

// StoredMessage письмо, сохраненное в Outbox
type StoredMessage struct {
	SentAt time.Time `json:"sent_at"`
	Message
	ID uint64 `json:"id"`
}

// lockTimeout сколько ждать файловую блокировку BoltDB
const lockTimeout = 5 * time.Second

// Outbox сохраняет письма в BoltDB вместо отправки.
// Файл открывается только на время одной операции, поэтому серверу и
// jobctl mail не приходится делить долгоживущую блокировку.
type Outbox struct {
	path string
	// mu сериализует операции внутри процесса
	mu sync.Mutex
}

// NewOutbox создает файл outbox и bucket, если их еще нет
func NewOutbox(path string) (*Outbox, error) {
	o := &Outbox{path: path}

	// Инициализируем bucket
	err := o.update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketOutbox); err != nil {
			return fmt.Errorf("failed to create outbox bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return o, nil
}

// Close ничего не держит открытым; оставлен для симметрии с другими хранилищами
func (o *Outbox) Close() error {
	return nil
}

func (o *Outbox) open(readOnly bool) (*bbolt.DB, error) {
	db, err := bbolt.Open(o.path, 0600, &bbolt.Options{Timeout: lockTimeout, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to open outbox: %w", err)
	}
	return db, nil
}

func (o *Outbox) update(fn func(tx *bbolt.Tx) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	db, err := o.open(false)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(fn)
}

func (o *Outbox) view(fn func(tx *bbolt.Tx) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	db, err := o.open(true)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.View(fn)
}

// Send сохраняет письмо в outbox
func (o *Outbox) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return o.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketOutbox)
		if bucket == nil {
			return fmt.Errorf("outbox bucket not found")
		}

		id, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate message id: %w", err)
		}

		// Сериализуем письмо в JSON
		data, err := json.Marshal(StoredMessage{
			ID:      id,
			Message: msg,
			SentAt:  time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}

		if err := bucket.Put(itob(id), data); err != nil {
			return fmt.Errorf("failed to save message: %w", err)
		}

		return nil
	})
}

// List возвращает сохраненные письма в порядке отправки
func (o *Outbox) List(ctx context.Context) ([]StoredMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var messages []StoredMessage

	err := o.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketOutbox)
		if bucket == nil {
			return fmt.Errorf("outbox bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			var msg StoredMessage
			if err := json.Unmarshal(v, &msg); err != nil {
				return fmt.Errorf("failed to unmarshal message: %w", err)
			}
			messages = append(messages, msg)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	return messages, nil
}

// itob кодирует id big-endian, чтобы ключи сортировались по порядку
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
