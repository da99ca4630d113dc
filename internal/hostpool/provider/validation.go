package provider

// customHostnameResult mirrors the parts of the custom hostname object we
// read. Certificate tokens show up in one of three places depending on the
// API version and certificate authority.
type customHostnameResult struct {
	ID       string `json:"id"`
	Hostname string `json:"hostname"`
	SSL      struct {
		Status            string     `json:"status"`
		TXTName           string     `json:"txt_name"`
		TXTValue          string     `json:"txt_value"`
		ValidationRecords []txtPair  `json:"validation_records"`
		ValidationErrors  []sslError `json:"validation_errors"`
		Settings          struct {
			TXTName  string `json:"txt_name"`
			TXTValue string `json:"txt_value"`
		} `json:"settings"`
	} `json:"ssl"`
	OwnershipVerification *struct {
		Type  string `json:"type"`
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"ownership_verification"`
}

type txtPair struct {
	TXTName  string `json:"txt_name"`
	TXTValue string `json:"txt_value"`
}

type sslError struct {
	Message string `json:"message"`
}

// certValidation picks the first candidate carrying both a name and a value:
// validation_records, then ssl.txt_*, then ssl.settings.txt_*.
func (r customHostnameResult) certValidation() *TXTRecord {
	candidates := append([]txtPair{}, r.SSL.ValidationRecords...)
	candidates = append(candidates,
		txtPair{TXTName: r.SSL.TXTName, TXTValue: r.SSL.TXTValue},
		txtPair{TXTName: r.SSL.Settings.TXTName, TXTValue: r.SSL.Settings.TXTValue},
	)
	for _, c := range candidates {
		if c.TXTName != "" && c.TXTValue != "" {
			return &TXTRecord{Name: c.TXTName, Value: c.TXTValue}
		}
	}
	return nil
}

func (r customHostnameResult) ownershipValidation() *TXTRecord {
	ov := r.OwnershipVerification
	if ov == nil || ov.Name == "" || ov.Value == "" {
		return nil
	}
	return &TXTRecord{Name: ov.Name, Value: ov.Value}
}

func (r customHostnameResult) toCustomHostname() CustomHostname {
	ch := CustomHostname{
		ID:                  r.ID,
		Hostname:            r.Hostname,
		SSLStatus:           r.SSL.Status,
		CertValidation:      r.certValidation(),
		OwnershipValidation: r.ownershipValidation(),
	}
	for _, e := range r.SSL.ValidationErrors {
		if e.Message != "" {
			ch.ValidationErrors = append(ch.ValidationErrors, e.Message)
		}
	}
	return ch
}
