package domain

// SubtestCode identifies one of the seven fixed UTBK subtests.
type SubtestCode string

const (
	SubtestPU      SubtestCode = "PU"       // Penalaran Umum
	SubtestPPU     SubtestCode = "PPU"      // Pengetahuan dan Pemahaman Umum
	SubtestPBM     SubtestCode = "PBM"      // Pemahaman Bacaan dan Menulis
	SubtestPK      SubtestCode = "PK"       // Pengetahuan Kuantitatif
	SubtestLitIndo SubtestCode = "LIT_INDO" // Literasi Bahasa Indonesia
	SubtestLitIng  SubtestCode = "LIT_ING"  // Literasi Bahasa Inggris
	SubtestPM      SubtestCode = "PM"       // Penalaran Matematika
)

// Subtest describes one topic partition of the exam.
type Subtest struct {
	Code         SubtestCode
	Name         string
	DisplayOrder int
}

// Subtests is the closed catalog of the seven subtests, in display order.
// Every question belongs to exactly one of them.
var Subtests = []Subtest{
	{Code: SubtestPU, Name: "Penalaran Umum", DisplayOrder: 1},
	{Code: SubtestPPU, Name: "Pengetahuan dan Pemahaman Umum", DisplayOrder: 2},
	{Code: SubtestPBM, Name: "Pemahaman Bacaan dan Menulis", DisplayOrder: 3},
	{Code: SubtestPK, Name: "Pengetahuan Kuantitatif", DisplayOrder: 4},
	{Code: SubtestLitIndo, Name: "Literasi Bahasa Indonesia", DisplayOrder: 5},
	{Code: SubtestLitIng, Name: "Literasi Bahasa Inggris", DisplayOrder: 6},
	{Code: SubtestPM, Name: "Penalaran Matematika", DisplayOrder: 7},
}

var subtestsByCode = func() map[SubtestCode]Subtest {
	m := make(map[SubtestCode]Subtest, len(Subtests))
	for _, s := range Subtests {
		m[s.Code] = s
	}
	return m
}()

// SubtestByCode looks up a subtest by its code.
func SubtestByCode(code SubtestCode) (Subtest, bool) {
	s, ok := subtestsByCode[code]
	return s, ok
}

// IsValidSubtestCode reports whether code is one of the seven known codes.
func IsValidSubtestCode(code string) bool {
	_, ok := subtestsByCode[SubtestCode(code)]
	return ok
}
