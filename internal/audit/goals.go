package audit

// Known goals. The set is closed: request validation rejects anything else,
// and every keyword or weight table is a partial mapping over this set.
const (
	GoalABTesting            Goal = "ab_testing"
	GoalAppDownload          Goal = "app_download"
	GoalBookDemo             Goal = "book_demo"
	GoalCartAbandonment      Goal = "cart_abandonment"
	GoalCRO                  Goal = "cro"
	GoalCustomerDataPlatform Goal = "customer_data_platform"
	GoalCustomerEngagement   Goal = "customer_engagement"
	GoalCustomerRetention    Goal = "customer_retention"
	GoalCXOptimization       Goal = "cx_optimization"
	GoalEcommerce            Goal = "ecommerce"
	GoalFeatureRollout       Goal = "feature_rollout"
	GoalFormAnalytics        Goal = "form_analytics"
	GoalGrowTraffic          Goal = "grow_traffic"
	GoalHeatmaps             Goal = "heatmaps"
	GoalLandingPageOpt       Goal = "landing_page_optimization"
	GoalLeadGeneration       Goal = "lead_generation"
	GoalMobileABTesting      Goal = "mobile_ab_testing"
	GoalMultivariateTesting  Goal = "multivariate_testing"
	GoalNewsletter           Goal = "newsletter"
	GoalPersonalization      Goal = "personalization"
	GoalPushNotifications    Goal = "push_notifications"
	GoalSaaSTrial            Goal = "saas_trial"
	GoalServerSideTesting    Goal = "server_side_testing"
	GoalSessionRecording     Goal = "session_recording"
	GoalUsabilityTesting     Goal = "usability_testing"
	GoalVisitorBehavior      Goal = "visitor_behavior"
	GoalWebsiteOptimization  Goal = "website_optimization"
	GoalWebsiteRedesign      Goal = "website_redesign"
	GoalWebsiteSurveys       Goal = "website_surveys"
)

// DefaultGoal is used when a request omits the goal field.
const DefaultGoal = GoalLeadGeneration

var goalLabels = map[Goal]string{
	GoalABTesting:            "A/B Testing",
	GoalAppDownload:          "App Download",
	GoalBookDemo:             "Book a Demo",
	GoalCartAbandonment:      "Cart Abandonment",
	GoalCRO:                  "Conversion Rate Optimization",
	GoalCustomerDataPlatform: "Customer Data Platform",
	GoalCustomerEngagement:   "Customer Engagement",
	GoalCustomerRetention:    "Customer Retention",
	GoalCXOptimization:       "Customer Experience Optimization",
	GoalEcommerce:            "E-commerce",
	GoalFeatureRollout:       "Feature Rollout",
	GoalFormAnalytics:        "Web Form Analytics",
	GoalGrowTraffic:          "Grow Website Traffic",
	GoalHeatmaps:             "Website Heatmaps",
	GoalLandingPageOpt:       "Landing Page Optimization",
	GoalLeadGeneration:       "Lead Generation",
	GoalMobileABTesting:      "Mobile App A/B Testing",
	GoalMultivariateTesting:  "Multivariate Testing",
	GoalNewsletter:           "Newsletter Signup",
	GoalPersonalization:      "Website Personalization",
	GoalPushNotifications:    "Push Notifications",
	GoalSaaSTrial:            "SaaS Trial",
	GoalServerSideTesting:    "Server-Side Testing",
	GoalSessionRecording:     "Session Recording",
	GoalUsabilityTesting:     "Usability Testing",
	GoalVisitorBehavior:      "Visitor Behavior Analysis",
	GoalWebsiteOptimization:  "Website Optimization",
	GoalWebsiteRedesign:      "Website Redesign",
	GoalWebsiteSurveys:       "Website Surveys",
}

// ValidGoal reports whether g belongs to the closed goal enumeration.
func ValidGoal(g Goal) bool {
	_, ok := goalLabels[g]
	return ok
}

// Label returns the human-readable name for a goal.
func (g Goal) Label() string {
	if label, ok := goalLabels[g]; ok {
		return label
	}
	return goalLabels[DefaultGoal]
}

// FocusContext returns the analysis emphasis injected into the narrative
// prompt for a goal. Empty for goals without specific guidance.
func (g Goal) FocusContext() string {
	return goalContexts[g]
}

var goalContexts = map[Goal]string{
	GoalABTesting: "Focus on clarity of test hypothesis, CTA button prominence, headline variation potential, " +
		"and whether page elements are isolated enough to be meaningfully tested. Identify elements " +
		"most likely to impact conversion when varied (headlines, CTAs, images, social proof).",

	GoalCartAbandonment: "Focus on checkout friction, trust signals at point of purchase, exit-intent triggers, " +
		"urgency/scarcity signals, cart visibility, saved cart features, and retargeting hooks. " +
		"Identify the exact moments where users are likely to drop off before completing purchase.",

	GoalCRO: "Focus on the full conversion funnel — above-fold clarity, value proposition strength, " +
		"CTA placement and copy, form friction, trust architecture, social proof density, and " +
		"page load performance. Identify the single highest-impact change to improve conversion rate.",

	GoalCustomerDataPlatform: "Focus on data capture mechanisms (forms, sign-ups, cookie consent), privacy compliance signals, " +
		"integration touchpoints, and how well the page communicates data value exchange to users. " +
		"Identify gaps in first-party data collection and consent UX.",

	GoalCustomerEngagement: "Focus on interactive elements, content depth, scroll depth triggers, community signals, " +
		"comment/feedback mechanisms, newsletter CTAs, and personalisation hooks. " +
		"Identify what keeps users engaged beyond the first visit.",

	GoalCXOptimization: "Focus on overall user journey clarity, navigation intuitiveness, support accessibility, " +
		"error state handling, loading performance, accessibility compliance, and emotional tone. " +
		"Identify friction points that degrade the end-to-end customer experience.",

	GoalCustomerRetention: "Focus on loyalty signals, member/subscriber benefits visibility, re-engagement CTAs, " +
		"account value communication, community belonging cues, and churn-prevention copy. " +
		"Identify what would make an existing customer return vs. leave.",

	GoalFeatureRollout: "Focus on feature announcement clarity, benefit-led messaging, adoption CTAs, " +
		"changelog/update visibility, tutorial or onboarding links, and user education hooks. " +
		"Identify how effectively the page communicates the new feature value to existing users.",

	GoalGrowTraffic: "Focus on SEO fundamentals — title tag, meta description, heading hierarchy, keyword density, " +
		"internal linking, schema markup, content depth, and social sharing signals. " +
		"Identify the highest-priority on-page SEO improvements to drive organic traffic growth.",

	GoalLandingPageOpt: "Focus on above-fold impact, headline-CTA alignment, visual hierarchy, form placement, " +
		"social proof proximity to CTA, page speed, and message-match with likely traffic sources. " +
		"Identify the single change most likely to lift landing page conversion rate.",

	GoalMobileABTesting: "Focus on mobile-specific UX — thumb-zone CTA placement, font legibility, tap target sizes, " +
		"swipe/scroll behaviour, mobile form friction, and app store deep-link visibility. " +
		"Identify elements that should be tested specifically for mobile users.",

	GoalMultivariateTesting: "Focus on identifying multiple independent page elements that each have meaningful conversion " +
		"impact — headlines, images, CTAs, social proof blocks, pricing displays. " +
		"Assess which combinations of changes are worth testing simultaneously.",

	GoalPushNotifications: "Focus on opt-in prompt placement and timing, permission request copy, value proposition for " +
		"subscribing, notification preference UI, and GDPR/consent compliance. " +
		"Identify how to maximise push notification opt-in rates without damaging UX.",

	GoalServerSideTesting: "Focus on backend-rendered elements suitable for server-side experiments — pricing logic, " +
		"personalisation rules, recommendation algorithms, page variants, and feature flags. " +
		"Identify which data-driven decisions would benefit most from controlled server-side testing.",

	GoalSessionRecording: "Focus on identifying high-friction UX areas — confusing navigation, rage-click zones, " +
		"dead clicks, scroll depth drop-offs, and form abandonment points. " +
		"Identify the page areas most likely to reveal user confusion in session recordings.",

	GoalUsabilityTesting: "Focus on task completion clarity, navigation discoverability, CTA labelling, error prevention, " +
		"cognitive load, and accessibility. Identify the top 3 usability issues a first-time visitor " +
		"would encounter trying to complete the page goal.",

	GoalVisitorBehavior: "Focus on content hierarchy, scroll-depth signals, click-through patterns, internal link " +
		"structure, and engagement hooks. Identify which page sections are likely to get the most " +
		"attention and which are likely to be ignored based on layout and content.",

	GoalFormAnalytics: "Focus on form design, field count, field labelling, validation feedback, progress indicators, " +
		"error messaging, and form abandonment triggers. Identify every point of friction in the " +
		"form completion journey and rank by likely drop-off impact.",

	GoalHeatmaps: "Focus on visual hierarchy, above-fold content density, CTA visibility, image placement, " +
		"and whitespace usage. Identify which elements are likely to attract the most clicks and " +
		"attention, and which important elements are likely to be missed by users.",

	GoalWebsiteOptimization: "Focus on technical performance (speed, mobile, Core Web Vitals signals), content quality, " +
		"SEO fundamentals, conversion elements, and overall UX. Provide a holistic audit covering " +
		"the most impactful improvements across performance, content, and conversion.",

	GoalPersonalization: "Focus on dynamic content opportunities, audience segmentation signals, geo/device targeting " +
		"hooks, returning visitor recognition, and behavioural trigger points. " +
		"Identify where personalised experiences would have the highest conversion impact.",

	GoalWebsiteRedesign: "Focus on brand clarity, visual consistency, navigation architecture, content hierarchy, " +
		"mobile experience, page speed baseline, and current conversion performance. " +
		"Identify what must be preserved, what must be fixed, and what should be reimagined.",

	GoalWebsiteSurveys: "Focus on survey trigger placement, exit-intent opportunities, post-conversion survey hooks, " +
		"NPS/CSAT signal collection points, and non-intrusive feedback mechanisms. " +
		"Identify the optimal moments and placements to collect user feedback without hurting conversion.",
}
