package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	uuid "github.com/ClydeShen/Angular2-UUIID"
	"github.com/go-zookeeper/zk"
)

// zkConn is the subset of *zk.Conn used by ZKStore.
type zkConn interface {
	Exists(path string) (bool, *zk.Stat, error)
	Get(path string) ([]byte, *zk.Stat, error)
	Set(path string, data []byte, version int32) (*zk.Stat, error)
	Create(path string, data []byte, flags int32, acl []zk.ACL) (string, error)
	Close()
}

// ZKStore keeps the clock state as the JSON data of a ZooKeeper node, so
// that a node id survives a move to another host.
type ZKStore struct {
	conn zkConn
	path string
}

// NewZKStore returns a store for the znode at nodePath over an existing connection.
func NewZKStore(conn *zk.Conn, nodePath string) *ZKStore {
	return newZKStore(conn, nodePath)
}

func newZKStore(conn zkConn, nodePath string) *ZKStore {
	return &ZKStore{conn: conn, path: path.Clean("/" + nodePath)}
}

func openZooKeeper(rest string, timeout time.Duration) (*ZKStore, error) {
	hosts, nodePath, _ := strings.Cut(rest, "/")
	if hosts == "" || nodePath == "" {
		return nil, fmt.Errorf("statestore: zk url needs hosts and a node path: %q", rest)
	}
	conn, _, err := zk.Connect(strings.Split(hosts, ","), timeout)
	if err != nil {
		return nil, fmt.Errorf("statestore: connect zk: %w", err)
	}
	return NewZKStore(conn, nodePath), nil
}

// Path returns the znode path.
func (s *ZKStore) Path() string {
	return s.path
}

// Load reads the znode.
func (s *ZKStore) Load(ctx context.Context) (uuid.ClockState, error) {
	if err := ctx.Err(); err != nil {
		return uuid.ClockState{}, err
	}
	data, _, err := s.conn.Get(s.path)
	if errors.Is(err, zk.ErrNoNode) {
		return uuid.ClockState{}, ErrNotFound
	}
	if err != nil {
		return uuid.ClockState{}, fmt.Errorf("statestore: get %s: %w", s.path, err)
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return uuid.ClockState{}, fmt.Errorf("%w: %s: %v", ErrCorruptState, s.path, err)
	}
	return rec.state(), nil
}

// Save writes the znode, creating it and its parents when missing. Writes
// are unconditional, so the last of several concurrent writers wins.
func (s *ZKStore) Save(ctx context.Context, st uuid.ClockState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(newRecord(st))
	if err != nil {
		return err
	}
	if err := s.ensurePath(path.Dir(s.path)); err != nil {
		return err
	}

	exists, _, err := s.conn.Exists(s.path)
	if err != nil {
		return fmt.Errorf("statestore: check %s: %w", s.path, err)
	}
	if !exists {
		_, err = s.conn.Create(s.path, data, 0, zk.WorldACL(zk.PermAll))
		if err == nil {
			return nil
		}
		if !errors.Is(err, zk.ErrNodeExists) {
			return fmt.Errorf("statestore: create %s: %w", s.path, err)
		}
	}

	// last writer wins: version -1 skips the znode version check
	if _, err := s.conn.Set(s.path, data, -1); err != nil {
		return fmt.Errorf("statestore: set %s: %w", s.path, err)
	}
	return nil
}

// ensurePath creates every missing ancestor of p, root first.
func (s *ZKStore) ensurePath(p string) error {
	if p == "/" || p == "." {
		return nil
	}
	exists, _, err := s.conn.Exists(p)
	if err != nil {
		return fmt.Errorf("statestore: check %s: %w", p, err)
	}
	if exists {
		return nil
	}
	if err := s.ensurePath(path.Dir(p)); err != nil {
		return err
	}
	_, err = s.conn.Create(p, []byte{}, 0, zk.WorldACL(zk.PermAll))
	if err != nil && !errors.Is(err, zk.ErrNodeExists) {
		return fmt.Errorf("statestore: create %s: %w", p, err)
	}
	return nil
}

// Close closes the ZooKeeper connection.
func (s *ZKStore) Close() error {
	s.conn.Close()
	return nil
}
