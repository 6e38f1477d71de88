// Package store persists tree snapshots in a pebble database.
package store

import (
	"encoding/json"
	"time"

	"github.com/atdiar/uistate/codec"
	"github.com/cockroachdb/pebble"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("store: snapshot not found")

const (
	snapshotPrefix = 'S'
	infoPrefix     = 'I'
)

// Info describes a stored snapshot.
type Info struct {
	Tree    string    `json:"tree"`
	SyncID  int       `json:"syncId"`
	Changes int       `json:"changes"`
	Size    int       `json:"size"`
	SavedAt time.Time `json:"savedAt"`
}

// Store keeps one snapshot per tree id. Snapshots are encoded batches,
// compressed with zstd.
type Store struct {
	db  *pebble.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open opens or creates the store in dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "opening store %s", dir)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "creating zstd encoder")
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		_ = db.Close()
		return nil, errors.Wrap(err, "creating zstd decoder")
	}
	return &Store{db: db, enc: enc, dec: dec}, nil
}

func key(prefix byte, tree string) []byte {
	return append([]byte{prefix}, tree...)
}

// Save stores b as the snapshot of tree, replacing the previous one.
func (s *Store) Save(tree string, b *codec.Batch) error {
	data, err := codec.Marshal(b)
	if err != nil {
		return err
	}
	compressed := s.enc.EncodeAll(data, nil)
	info, err := json.Marshal(Info{
		Tree:    tree,
		SyncID:  b.SyncID,
		Changes: len(b.Changes),
		Size:    len(compressed),
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return errors.Wrap(err, "encoding snapshot info")
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(key(snapshotPrefix, tree), compressed, nil); err != nil {
		return errors.Wrap(err, "saving snapshot")
	}
	if err := batch.Set(key(infoPrefix, tree), info, nil); err != nil {
		return errors.Wrap(err, "saving snapshot info")
	}
	return errors.Wrapf(batch.Commit(pebble.Sync), "saving snapshot of %s", tree)
}

func (s *Store) get(k []byte) ([]byte, error) {
	v, closer, err := s.db.Get(k)
	if err == pebble.ErrNotFound {
		return nil, errors.Wrapf(ErrNotFound, "%s", k[1:])
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading store")
	}
	defer closer.Close()
	return append([]byte(nil), v...), nil
}

// Load returns the snapshot of tree.
func (s *Store) Load(tree string) (*codec.Batch, error) {
	compressed, err := s.get(key(snapshotPrefix, tree))
	if err != nil {
		return nil, err
	}
	data, err := s.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "decompressing snapshot of %s", tree)
	}
	return codec.Decode(data)
}

func (s *Store) Info(tree string) (Info, error) {
	var info Info
	data, err := s.get(key(infoPrefix, tree))
	if err != nil {
		return info, err
	}
	err = json.Unmarshal(data, &info)
	return info, errors.Wrap(err, "decoding snapshot info")
}

func (s *Store) Delete(tree string) error {
	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete(key(snapshotPrefix, tree), nil); err != nil {
		return errors.Wrap(err, "deleting snapshot")
	}
	if err := batch.Delete(key(infoPrefix, tree), nil); err != nil {
		return errors.Wrap(err, "deleting snapshot info")
	}
	return errors.Wrapf(batch.Commit(pebble.Sync), "deleting snapshot of %s", tree)
}

// List returns the stored snapshots ordered by tree id.
func (s *Store) List() ([]Info, error) {
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{infoPrefix},
		UpperBound: []byte{infoPrefix + 1},
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing snapshots")
	}
	defer it.Close()

	var res []Info
	for it.First(); it.Valid(); it.Next() {
		var info Info
		if err := json.Unmarshal(it.Value(), &info); err != nil {
			return nil, errors.Wrapf(err, "decoding info of %s", it.Key()[1:])
		}
		res = append(res, info)
	}
	return res, errors.Wrap(it.Error(), "listing snapshots")
}

func (s *Store) Close() error {
	s.dec.Close()
	_ = s.enc.Close()
	return errors.Wrap(s.db.Close(), "closing store")
}
