package keyring

import "sync"

type entry struct {
	service, key string
}

// MockStore is an in-memory Store for tests. Each operation can be made to
// fail with an injected error.
type MockStore struct {
	mu      sync.Mutex
	secrets map[entry]string
	fail    map[string]error
}

// NewMockStore returns an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{secrets: map[entry]string{}, fail: map[string]error{}}
}

// NewMockCredentials returns a MockStore already holding a key pair.
func NewMockCredentials(keyID, secretKey string) *MockStore {
	return NewMockStore().
		WithData(ServiceName, KeyID, keyID).
		WithData(ServiceName, KeySecretKey, secretKey)
}

func (m *MockStore) Get(service, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["get"]; err != nil {
		return "", err
	}
	v, ok := m.secrets[entry{service, key}]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MockStore) Set(service, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["set"]; err != nil {
		return err
	}
	m.secrets[entry{service, key}] = value
	return nil
}

func (m *MockStore) Delete(service, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["delete"]; err != nil {
		return err
	}
	delete(m.secrets, entry{service, key})
	return nil
}

// Len is the number of stored secrets.
func (m *MockStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.secrets)
}

func (m *MockStore) WithGetError(err error) *MockStore    { return m.failing("get", err) }
func (m *MockStore) WithSetError(err error) *MockStore    { return m.failing("set", err) }
func (m *MockStore) WithDeleteError(err error) *MockStore { return m.failing("delete", err) }

// WithData stores value without going through Set, so it works even when
// Set is failing.
func (m *MockStore) WithData(service, key, value string) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[entry{service, key}] = value
	return m
}

func (m *MockStore) failing(op string, err error) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[op] = err
	return m
}
