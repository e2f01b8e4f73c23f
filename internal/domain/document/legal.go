package document

import (
	"bytes"
	"encoding/json"
)

// Structured legal entities. Older payloads carry some of them as bare strings;
// UnmarshalJSON accepts both forms so callers only ever see the struct.

// CaseInfo identifies the case a document belongs to. A bare string is read as the case name.
type CaseInfo struct {
	CaseNumber   string `json:"case_number"`
	CaseName     string `json:"case_name"`
	CaseType     string `json:"case_type,omitempty"`
	Chapter      string `json:"chapter,omitempty"`
	Docket       string `json:"docket,omitempty"`
	NatureOfSuit string `json:"nature_of_suit,omitempty"`
}

// CourtInfo describes the court. A bare string is read as the court name.
type CourtInfo struct {
	CourtID      string `json:"court_id,omitempty"`
	CourtName    string `json:"court_name"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	Level        string `json:"level,omitempty"`
	District     string `json:"district,omitempty"`
	Division     string `json:"division,omitempty"`
	County       string `json:"county,omitempty"`
}

// Judge is the presiding judge. A bare string is read as the name.
type Judge struct {
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	JudgeID string `json:"judge_id,omitempty"`
}

// Party is a case participant. A bare string is read as the name.
type Party struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	PartyType string `json:"party_type,omitempty"`
	Date      string `json:"date,omitempty"`
}

// Attorney is counsel of record. A bare string is read as the name.
type Attorney struct {
	Name         string `json:"name"`
	BarNumber    string `json:"bar_number,omitempty"`
	Role         string `json:"role"`
	Organization string `json:"organization,omitempty"`
	ContactInfo  string `json:"contact_info,omitempty"`
}

// Charge is a criminal charge referenced by the document.
type Charge struct {
	Statute     string `json:"statute"`
	Description string `json:"description"`
	Grade       string `json:"grade,omitempty"`
	Class       string `json:"class,omitempty"`
	Count       int    `json:"count,omitempty"`
}

// Authority is a cited legal authority.
type Authority struct {
	Citation  string `json:"citation"`
	CaseTitle string `json:"case_title,omitempty"`
	Type      string `json:"type"`
	Precedent bool   `json:"precedent"`
	Page      string `json:"page,omitempty"`
}

type (
	caseObject     CaseInfo
	courtObject    CourtInfo
	judgeObject    Judge
	partyObject    Party
	attorneyObject Attorney
)

// UnmarshalJSON accepts a case object or a bare case name.
func (c *CaseInfo) UnmarshalJSON(data []byte) error {
	return decodeStringOrObject(data, &c.CaseName, (*caseObject)(c))
}

// UnmarshalJSON accepts a court object or a bare court name.
func (c *CourtInfo) UnmarshalJSON(data []byte) error {
	return decodeStringOrObject(data, &c.CourtName, (*courtObject)(c))
}

// UnmarshalJSON accepts a judge object or a bare name.
func (j *Judge) UnmarshalJSON(data []byte) error {
	return decodeStringOrObject(data, &j.Name, (*judgeObject)(j))
}

// UnmarshalJSON accepts a party object or a bare name.
func (p *Party) UnmarshalJSON(data []byte) error {
	return decodeStringOrObject(data, &p.Name, (*partyObject)(p))
}

// UnmarshalJSON accepts an attorney object or a bare name.
func (a *Attorney) UnmarshalJSON(data []byte) error {
	return decodeStringOrObject(data, &a.Name, (*attorneyObject)(a))
}

func decodeStringOrObject(data []byte, name *string, obj any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, name)
	}
	return json.Unmarshal(data, obj)
}
