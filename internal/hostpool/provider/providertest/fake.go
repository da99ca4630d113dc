// Package providertest offers an in-memory provider.Client for tests.
package providertest

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/aussiebroadwan/hostpool/internal/hostpool/provider"
)

// Fake records remote state in maps. Set a Fail* field to make the matching
// call return that error.
type Fake struct {
	mu sync.Mutex

	DNS    map[string]DNSRecord
	Custom map[string]provider.CustomHostname

	// SSLStatus is reported by GetCustomHostname, default "pending_validation".
	SSLStatus string

	// OmitTokens makes GetCustomHostname return no validation records.
	OmitTokens bool

	FailCreateDNS    error
	FailUpdateDNS    error
	FailDeleteDNS    error
	FailCreateCustom error
	FailGetCustom    error
	FailDeleteCustom error

	seq   int
	Calls []string
}

type DNSRecord struct {
	Zone    string
	Name    string
	Address string
	Type    string
}

func New() *Fake {
	return &Fake{
		DNS:       make(map[string]DNSRecord),
		Custom:    make(map[string]provider.CustomHostname),
		SSLStatus: "pending_validation",
	}
}

// APIError builds the error a real client returns for a rejected call.
func APIError(op string, msgs ...string) error {
	return &provider.Error{Op: op, Status: http.StatusBadRequest, Messages: msgs}
}

func (f *Fake) record(call string) {
	f.Calls = append(f.Calls, call)
}

func (f *Fake) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *Fake) CreateDNSRecord(ctx context.Context, zone provider.Zone, name, address, recordType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create_dns " + name)

	if f.FailCreateDNS != nil {
		return "", f.FailCreateDNS
	}
	id := f.nextID("dns")
	f.DNS[id] = DNSRecord{Zone: zone.Name, Name: name, Address: address, Type: recordType}
	return id, nil
}

func (f *Fake) UpdateDNSRecord(ctx context.Context, zone provider.Zone, recordID, address string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update_dns " + recordID)

	if f.FailUpdateDNS != nil {
		return f.FailUpdateDNS
	}
	rec, ok := f.DNS[recordID]
	if !ok {
		return &provider.Error{Op: "update dns record", Status: http.StatusNotFound, Messages: []string{"record not found"}}
	}
	rec.Address = address
	f.DNS[recordID] = rec
	return nil
}

func (f *Fake) DeleteDNSRecord(ctx context.Context, zone provider.Zone, recordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete_dns " + recordID)

	if f.FailDeleteDNS != nil {
		return f.FailDeleteDNS
	}
	delete(f.DNS, recordID)
	return nil
}

func (f *Fake) CreateCustomHostname(ctx context.Context, zone provider.Zone, hostname, origin string) (provider.CustomHostname, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create_custom " + hostname)

	if f.FailCreateCustom != nil {
		return provider.CustomHostname{}, f.FailCreateCustom
	}
	id := f.nextID("ch")
	ch := provider.CustomHostname{
		ID:                  id,
		Hostname:            hostname,
		SSLStatus:           "initializing",
		CertValidation:      &provider.TXTRecord{Name: "_acme-challenge." + hostname, Value: "cert-" + id},
		OwnershipValidation: &provider.TXTRecord{Name: "_cf-custom-hostname." + hostname, Value: "own-" + id},
	}
	f.Custom[id] = ch
	return ch, nil
}

func (f *Fake) GetCustomHostname(ctx context.Context, zone provider.Zone, customHostnameID string) (provider.CustomHostname, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("get_custom " + customHostnameID)

	if f.FailGetCustom != nil {
		return provider.CustomHostname{}, f.FailGetCustom
	}
	ch, ok := f.Custom[customHostnameID]
	if !ok {
		return provider.CustomHostname{}, &provider.Error{Op: "get custom hostname", Status: http.StatusNotFound, Messages: []string{"custom hostname not found"}}
	}
	ch.SSLStatus = f.SSLStatus
	if f.OmitTokens {
		ch.CertValidation, ch.OwnershipValidation = nil, nil
	}
	return ch, nil
}

func (f *Fake) DeleteCustomHostname(ctx context.Context, zone provider.Zone, customHostnameID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete_custom " + customHostnameID)

	if f.FailDeleteCustom != nil {
		return f.FailDeleteCustom
	}
	delete(f.Custom, customHostnameID)
	return nil
}

// Counts returns the number of live DNS records and custom hostnames.
func (f *Fake) Counts() (dns, custom int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.DNS), len(f.Custom)
}

// SetFailures swaps error injection under the lock.
func (f *Fake) SetFailures(fn func(f *Fake)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}
