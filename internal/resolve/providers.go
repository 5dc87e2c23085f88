package resolve

// Known applicant-tracking systems. Matched by exact host or dot-suffix,
// first hit wins.
var atsDomains = []struct {
	domain   string
	provider string
}{
	{"myworkdayjobs.com", "workday"},
	{"greenhouse.io", "greenhouse"},
	{"boards.greenhouse.io", "greenhouse"},
	{"lever.co", "lever"},
	{"jobs.personio.de", "personio"},
	{"jobs.personio.com", "personio"},
	{"smartrecruiters.com", "smartrecruiters"},
	{"teamtailor.com", "teamtailor"},
	{"workable.com", "workable"},
	{"applytojob.com", "workable"}, // also fronts JazzHR boards
	{"jazz.co", "jazzhr"},
	{"ashbyhq.com", "ashby"},
	{"recruitee.com", "recruitee"},
	{"bamboohr.com", "bamboohr"},
	{"icims.com", "icims"},
	{"jobvite.com", "jobvite"},
	{"breezy.hr", "breezyhr"},
	{"comeet.co", "comeet"},
	{"pinpoint.jobs", "pinpoint"},
	{"join.com", "join"},
}

// Known job boards: the host tells us where the posting was found but not
// who is hiring.
var boardDomains = []struct {
	domain   string
	provider string
}{
	{"linkedin.com", "linkedin"},
	{"indeed.com", "indeed"},
	{"indeed.de", "indeed"},
	{"stepstone.de", "stepstone"},
	{"stepstone.fr", "stepstone"},
	{"stepstone.nl", "stepstone"},
	{"xing.com", "xing"},
	{"weworkremotely.com", "weworkremotely"},
	{"dynamitejobs.com", "dynamitejobs"},
	{"remotive.com", "remotive"},
	{"ziprecruiter.com", "ziprecruiter"},
	{"reed.co.uk", "reed"},
	{"totaljobs.com", "totaljobs"},
	{"cv-library.co.uk", "cv-library"},
	{"nofluffjobs.com", "nofluffjobs"},
	{"pracuj.pl", "pracuj"},
}

var referralKeys = []string{"source", "src", "utm_source", "ref", "referrer"}

var sourceAliases = map[string]string{
	"li":                "linkedin",
	"lnkd":              "linkedin",
	"angellist":         "wellfound",
	"angel":             "wellfound",
	"angelco":           "wellfound",
	"stackoverflowjobs": "stackoverflow",
	"stack-overflow":    "stackoverflow",
	"wwr":               "weworkremotely",
	"cvlibrary":         "cv-library",
}

// Host labels that mean "this is the careers section", in the languages the
// catalog actually sees (en/de/fr/pl).
var genericJobLabels = map[string]bool{
	"job": true, "jobs": true, "career": true, "careers": true,
	"karriere": true, "stellen": true, "stellenangebote": true, "arbeit": true,
	"emploi": true, "carriere": true, "carrieres": true,
	"praca": true, "kariera": true, "oferty": true,
	"ofertapracy": true, "ofertypracy": true, "oferta": true,
}

// Registrable suffixes with two labels; everything else is treated as one.
var multiLevelTLDs = map[string]bool{
	"co.uk": true, "com.au": true, "com.br": true, "co.nz": true,
	"com.sg": true, "com.tr": true, "com.mx": true, "co.jp": true,
	"co.kr": true, "com.cn": true, "com.hk": true, "com.tw": true,
	"com.pl": true,
}
