package store

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"absences/internal/referencedata/models"
	"absences/pkg/domain"
)

// seedNamespace derives stable item and link IDs from natural keys so the
// seeded catalogue is identical across restarts and replicas.
var seedNamespace = uuid.MustParse("0d9e3c4a-51b6-4f0e-8a8c-6a3f5f1f9d20")

type seeder struct {
	items []models.ReferenceData
	links []models.CategorisationLink
	keys  map[string]models.ReferenceData
}

func (s *seeder) add(d domain.DomainCode, seq int, code, description string, next ...domain.DomainCode) {
	item := models.ReferenceData{
		ID:             domain.ReferenceDataID(uuid.NewSHA1(seedNamespace, []byte(string(d)+":"+code))),
		Domain:         d,
		Code:           code,
		Description:    description,
		SequenceNumber: seq,
		Active:         true,
	}
	if len(next) > 0 {
		n := next[0]
		item.Next = &n
	}
	s.items = append(s.items, item)
	s.keys[string(d)+":"+code] = item
}

func (s *seeder) link(fromDomain domain.DomainCode, fromCode string, toDomain domain.DomainCode, toCodes ...string) {
	from := s.keys[string(fromDomain)+":"+fromCode]
	for i, code := range toCodes {
		to := s.keys[string(toDomain)+":"+code]
		s.links = append(s.links, models.CategorisationLink{
			ID:             domain.LinkID(uuid.NewSHA1(seedNamespace, []byte(from.ID.String()+">"+to.ID.String()))),
			FromDomain:     fromDomain,
			FromID:         from.ID,
			ToDomain:       toDomain,
			ToID:           to.ID,
			SequenceNumber: i + 1,
		})
	}
}

// Seed returns the standard categorisation tree: standard and youth ROTL,
// security escorts and police production, with paid and unpaid work
// categories, plus the non-hierarchy lookup domains.
func Seed() models.Catalogue {
	s := &seeder{keys: make(map[string]models.ReferenceData)}

	const (
		typ    = domain.DomainAbsenceType
		sub    = domain.DomainAbsenceSubType
		cat    = domain.DomainAbsenceReasonCategory
		reason = domain.DomainAbsenceReason
	)

	s.add(typ, 1, "SR", "Standard ROTL (Release on Temporary Licence)", sub)
	s.add(typ, 2, "YTAP", "Youth temporary release", sub)
	s.add(typ, 3, "SE", "Security escort", reason)
	s.add(typ, 4, "PP", "Police production")

	s.add(sub, 1, "CRL", "Childcare resettlement licence (CRL)")
	s.add(sub, 2, "RDR", "Resettlement day release (RDR)", cat)
	s.add(sub, 3, "ROR", "Resettlement overnight release (ROR)", cat)
	s.add(sub, 4, "SPL", "Special purpose licence (SPL)", reason)
	s.add(sub, 5, "YRDR", "Resettlement day release", reason)
	s.add(sub, 6, "YROR", "Resettlement overnight release")

	s.add(cat, 1, "PW", "Paid work", reason)
	s.add(cat, 2, "UW", "Unpaid work", reason)
	s.add(cat, 3, "FB", "Maintaining family ties", reason)
	s.add(cat, 4, "ET", "Education or training", reason)
	s.add(cat, 5, "R3", "Accommodation-related")

	s.add(reason, 1, "AGRI", "Agriculture and horticulture")
	s.add(reason, 2, "CONS", "Construction and recycling")
	s.add(reason, 3, "RETAIL", "Retail and wholesale")
	s.add(reason, 4, "HOSP", "Hospitality and catering")
	s.add(reason, 5, "CHARITY", "Charity or voluntary work")
	s.add(reason, 6, "COMM", "Community payback")
	s.add(reason, 7, "FAMV", "Family visit")
	s.add(reason, 8, "CHILD", "Childcare responsibilities")
	s.add(reason, 9, "COURSE", "College or university course")
	s.add(reason, 10, "EXAM", "Examination")
	s.add(reason, 11, "ACCOM", "Accommodation viewing")
	s.add(reason, 12, "FUNERAL", "Funeral")
	s.add(reason, 13, "MEDICAL", "Medical or dental appointment")
	s.add(reason, 14, "COURT", "Court hearing")
	s.add(reason, 15, "YEDU", "Education")
	s.add(reason, 16, "YWORK", "Work experience")

	s.link(typ, "SR", sub, "CRL", "RDR", "ROR", "SPL")
	s.link(typ, "YTAP", sub, "YRDR", "YROR")
	s.link(typ, "SE", reason, "FUNERAL", "MEDICAL", "COURT")

	s.link(sub, "RDR", cat, "PW", "UW", "FB", "ET", "R3")
	s.link(sub, "ROR", cat, "FB", "R3")
	s.link(sub, "SPL", reason, "FUNERAL", "MEDICAL")
	s.link(sub, "YRDR", reason, "YEDU", "YWORK")

	s.link(cat, "PW", reason, "AGRI", "CONS", "RETAIL", "HOSP")
	s.link(cat, "UW", reason, "CHARITY", "COMM")
	s.link(cat, "FB", reason, "FAMV", "CHILD")
	s.link(cat, "ET", reason, "COURSE", "EXAM")
	s.link(cat, "R3", reason, "ACCOM")

	for i, a := range []struct{ code, description string }{
		{"U", "Unaccompanied"},
		{"P", "Prison officer"},
		{"POL", "Police"},
		{"SP", "Sponsor"},
	} {
		s.add(domain.DomainAccompaniedBy, i+1, a.code, a.description)
	}
	for i, t := range []struct{ code, description string }{
		{"CAR", "Car"},
		{"PUB", "Public transport"},
		{"TAX", "Taxi"},
		{"VAN", "Prison van"},
	} {
		s.add(domain.DomainTransport, i+1, t.code, t.description)
	}
	for i, l := range []struct{ code, description string }{
		{"CORP", "Business"},
		{"HOSP", "Hospital"},
		{"COURT", "Court"},
		{"OTHER", "Other location"},
	} {
		s.add(domain.DomainLocationType, i+1, l.code, l.description)
	}
	for i, code := range []string{"PENDING", "APPROVED", "DENIED", "CANCELLED"} {
		s.add(domain.DomainAuthorisationStatus, i+1, code, statusDescription(code))
	}
	for i, code := range []string{"SCHEDULED", "IN_PROGRESS", "COMPLETED", "CANCELLED", "EXPIRED", "OVERDUE"} {
		s.add(domain.DomainOccurrenceStatus, i+1, code, statusDescription(code))
	}
	for i, code := range []string{"IN", "OUT"} {
		s.add(domain.DomainMovementStatus, i+1, code, statusDescription(code))
	}

	// retired reason kept for history; never offered
	s.add(reason, 99, "RESTRICTED", "Restricted ROTL (withdrawn)")
	s.items[len(s.items)-1].Active = false

	return models.Catalogue{
		Items:    s.items,
		Links:    s.links,
		LoadedAt: time.Now().UTC(),
	}
}

// statusDescription turns IN_PROGRESS into "In progress".
func statusDescription(code string) string {
	return code[:1] + strings.ToLower(strings.ReplaceAll(code[1:], "_", " "))
}
