package testutil

// Fixture document paths, relative to the upstream base URL.
const (
	TranslationsPath = "/jm-contents/translations.json"
	ServicesPath     = "/jm-contents/services.json"
	PackagesPath     = "/jm-contents/packages.json"
	CoveragePath     = "/jm-contents/coverage.json"
	TestimonialsPath = "/jm-contents/testimonials.json"
	ContactsPath     = "/jm-contents/contacts.json"
	TermsPath        = "/jm-policies/terms.json"
	UsagePath        = "/jm-policies/usage.json"
	PrivacyPath      = "/jm-policies/privacy.json"
	RefundPath       = "/jm-policies/refund.json"
	TokenPath        = "/jm-scripts/get-csrf-token.php"
	RelayPath        = "/jm-scripts/mailer.php"
)

// FixtureTranslations is a two-language translation table.
const FixtureTranslations = `{
  "en": {
    "page_title": "Sinthia Telecom | Fast Internet",
    "hero_heading": "Blazing <span class=\"gradient-text\">Fast</span> Internet",
    "footer_copyright": "© {year} Sinthia Telecom. All rights reserved.",
    "service_fiber_title": "Fiber Connection",
    "service_fiber_desc": "Dedicated fiber to your home.",
    "service_support_title": "24/7 Support",
    "service_support_desc": "We are always here.",
    "package_cta": "Subscribe",
    "contention_ratio": "Contention ratio 1:8",
    "coverage_select_placeholder": "Select your area",
    "coverage_available": "Great news! We are available in your area.",
    "coverage_coming_soon": "We are coming to your area soon.",
    "coverage_unavailable": "Sorry, we are not in your area yet.",
    "form_name_placeholder": "Your name",
    "form_status_sending": "Sending...",
    "form_status_success": "Message sent successfully!",
    "form_status_error_generic": "An unknown error occurred.",
    "selected_package_text": "Selected Plan:",
    "speedtest_start_btn": "Begin Test",
    "speedtest_testing_btn": "Testing..."
  },
  "bn": {
    "page_title": "সিনথিয়া টেলিকম",
    "package_cta": "সাবস্ক্রাইব",
    "coverage_available": "সুখবর! আপনার এলাকায় আমরা আছি।",
    "form_status_sending": "পাঠানো হচ্ছে..."
  }
}`

// FixtureServices lists two services.
const FixtureServices = `[
  {"icon": "fa-network-wired", "color": "#3b82f6", "title_key": "service_fiber_title", "desc_key": "service_fiber_desc"},
  {"icon": "fa-headset", "color": "#ec4899", "title_key": "service_support_title", "desc_key": "service_support_desc"}
]`

// FixturePackages lists two standard packages and one special package.
const FixturePackages = `{
  "standard": [
    {"name": "Basic", "speed": 20, "price": 500, "color": "blue", "features": {"fb": 40, "yt": 40, "bdix": 60, "ftp": 80}},
    {"name": "Pro", "speed": 50, "price": "1,050", "color": "pink", "features": {"fb": 80, "yt": 80, "bdix": 100, "ftp": 100}}
  ],
  "special": [
    {"name": "Gamer", "speed": 100, "price": 2000, "color": "purple"}
  ]
}`

// FixtureCoverage lists areas in unsorted order, including one with an unrecognized status.
const FixtureCoverage = `[
  {"value": "uttara", "name": {"en": "Uttara", "bn": "উত্তরা"}, "status": "available"},
  {"value": "badda", "name": {"en": "Badda", "bn": "বাড্ডা"}, "status": "coming_soon"},
  {"value": "mirpur", "name": {"en": "Mirpur"}, "status": "unavailable"},
  {"value": "gulshan", "name": {"en": "Gulshan", "bn": "গুলশান"}, "status": "surveying"}
]`

// FixtureTestimonials lists three testimonials averaging 4.7.
const FixtureTestimonials = `[
  {"quote": {"en": "Best connection I have had.", "bn": "সেরা সংযোগ।"}, "name": "Rahim", "rating": 5},
  {"quote": {"en": "Reliable and fast."}, "name": "Karim", "rating": 4},
  {"quote": {"en": "Support answers at night."}, "name": "Nusrat", "rating": 5}
]`

// FixtureContacts lists contact values.
const FixtureContacts = `{
  "email": "info@sinthia.example",
  "hotline": "+880 1700 000 000",
  "facebook": "https://facebook.com/sinthia",
  "address": "House 1, Road 2, Dhaka",
  "quickPayBaseUrl": "https://pay.sinthia.example/quick-pay/",
  "office_hours": 24
}`

// FixtureTermsPolicy is a policy document with English and Bengali entries.
const FixtureTermsPolicy = `{
  "en": {"terms": {"title": "Terms of Service", "content": "<p>Be kind.</p>"}},
  "bn": {"terms": {"title": "পরিষেবার শর্তাবলী", "content": "<p>ভদ্র থাকুন।</p>"}}
}`

// FixtureUsagePolicy is an English-only policy document.
const FixtureUsagePolicy = `{
  "en": {"usage": {"title": "Fair Usage", "content": "<p>No abuse.</p>"}}
}`

// FixturePrivacyPolicy is a Markdown-authored policy document.
const FixturePrivacyPolicy = `{
  "en": {"privacy": {"title": "Privacy", "content": "We **never** sell data.", "format": "markdown"}}
}`

// FixtureRefundPolicy is an English-only policy document.
const FixtureRefundPolicy = `{
  "en": {"refund": {"title": "Refunds", "content": "<p>Within 7 days.</p>"}}
}`

// FixtureDocuments maps every fixture path to its body.
func FixtureDocuments() map[string]string {
	return map[string]string{
		TranslationsPath: FixtureTranslations,
		ServicesPath:     FixtureServices,
		PackagesPath:     FixturePackages,
		CoveragePath:     FixtureCoverage,
		TestimonialsPath: FixtureTestimonials,
		ContactsPath:     FixtureContacts,
		TermsPath:        FixtureTermsPolicy,
		UsagePath:        FixtureUsagePolicy,
		PrivacyPath:      FixturePrivacyPolicy,
		RefundPath:       FixtureRefundPolicy,
	}
}
