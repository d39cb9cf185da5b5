package device

import (
	"time"

	"prompt-console/core/docstore"
	"prompt-console/core/utils"
)

// CollectionDevices is the document collection holding device ledgers.
const CollectionDevices = "devices"

// Account is one account registered on a device, as embedded in the ledger.
type Account struct {
	ID          string    `json:"accountId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoUrl"`
	FirstSeenAt time.Time `json:"firstSeenAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}

// Device is the per-device account ledger. AccountIDs, AccountCount, and
// Accounts redundantly describe the same membership; the Registry keeps them
// in lockstep.
type Device struct {
	ID           string         `json:"deviceId"`
	AccountIDs   []string       `json:"accountIds"`
	AccountCount int            `json:"accountCount"`
	Accounts     []Account      `json:"accounts"`
	Info         map[string]any `json:"deviceInfo"`
	FirstSeenAt  time.Time      `json:"firstSeenAt"`
	LastSeenAt   time.Time      `json:"lastSeenAt"`
}

// HasAccount reports whether the account id is in the ledger's id set.
func (d *Device) HasAccount(accountID string) bool {
	for _, id := range d.AccountIDs {
		if id == accountID {
			return true
		}
	}
	return false
}

// fields encodes the device as a document payload. Timestamps are stored as
// RFC3339 strings so the payload round-trips through JSON without surprises.
func (d *Device) fields() map[string]any {
	accounts := make([]any, 0, len(d.Accounts))
	for _, a := range d.Accounts {
		accounts = append(accounts, accountFields(a))
	}
	return map[string]any{
		"accountIds":   append([]string{}, d.AccountIDs...),
		"accountCount": d.AccountCount,
		"accounts":     accounts,
		"deviceInfo":   d.Info,
		"firstSeenAt":  encodeTime(d.FirstSeenAt),
		"lastSeenAt":   encodeTime(d.LastSeenAt),
	}
}

// membershipFields encodes only the ledger fields that must move together on
// an account mutation, so one Update call covers the whole invariant.
func (d *Device) membershipFields() map[string]any {
	f := d.fields()
	delete(f, "firstSeenAt")
	return f
}

func accountFields(a Account) map[string]any {
	return map[string]any{
		"accountId":   a.ID,
		"email":       a.Email,
		"displayName": a.DisplayName,
		"photoUrl":    a.PhotoURL,
		"firstSeenAt": encodeTime(a.FirstSeenAt),
		"lastSeenAt":  encodeTime(a.LastSeenAt),
	}
}

// deviceFromDocument decodes a stored ledger. Unknown or malformed fields
// decode to zero values rather than failing; the registry self-heals counts.
func deviceFromDocument(doc *docstore.Document) *Device {
	d := &Device{
		ID:           doc.ID,
		AccountIDs:   utils.ToStringSlice(doc.Fields["accountIds"]),
		AccountCount: utils.ToInt(doc.Fields["accountCount"]),
		FirstSeenAt:  decodeTime(doc.Fields["firstSeenAt"]),
		LastSeenAt:   decodeTime(doc.Fields["lastSeenAt"]),
	}
	if info, ok := doc.Fields["deviceInfo"].(map[string]any); ok {
		d.Info = info
	}
	if raw, ok := doc.Fields["accounts"].([]any); ok {
		d.Accounts = make([]Account, 0, len(raw))
		for _, item := range raw {
			if m, ok := item.(map[string]any); ok {
				d.Accounts = append(d.Accounts, accountFromFields(m))
			}
		}
	}
	return d
}

func accountFromFields(m map[string]any) Account {
	return Account{
		ID:          utils.ToString(m["accountId"]),
		Email:       utils.ToString(m["email"]),
		DisplayName: utils.ToString(m["displayName"]),
		PhotoURL:    utils.ToString(m["photoUrl"]),
		FirstSeenAt: decodeTime(m["firstSeenAt"]),
		LastSeenAt:  decodeTime(m["lastSeenAt"]),
	}
}

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func decodeTime(v any) time.Time {
	s := utils.ToString(v)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
