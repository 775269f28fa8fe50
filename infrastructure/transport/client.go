package transport

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/carlosrabelo/portsheet/domain/entities"
)

var (
	clientCache   = make(map[string]Client)
	clientCacheMu sync.Mutex
)

func cacheKey(target entities.Target) string {
	keyData := struct {
		Transport      string
		Address        string
		Port           int
		Username       string
		Password       string
		EnablePassword string
	}{
		Transport:      target.Transport,
		Address:        target.Address,
		Port:           target.Port,
		Username:       target.Username,
		Password:       target.Password,
		EnablePassword: target.EnablePassword,
	}
	bytes, _ := json.Marshal(keyData)
	hash := sha256.Sum256(bytes)
	return hex.EncodeToString(hash[:])
}

// Get returns a cached client for the target or creates a new one
func Get(target entities.Target, dialect entities.Dialect) Client {
	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()
	key := cacheKey(target)
	if client, exists := clientCache[key]; exists {
		return client
	}
	client := newClient(target, dialect)
	clientCache[key] = client
	return client
}

// CloseAll releases every cached client session
func CloseAll() {
	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()
	for key, client := range clientCache {
		client.Disconnect()
		delete(clientCache, key)
	}
}

func newClient(target entities.Target, dialect entities.Dialect) Client {
	if target.Transport == entities.TransportTelnet {
		return NewTelnetClient(target, dialect)
	}
	return NewSSHClient(target, dialect)
}
