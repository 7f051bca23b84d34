package cmd

import "hushhush/models"

const samplePassword = "password123"

type sampleUser struct {
	Email            string
	Username         string
	UserType         models.UserType
	Bio              string
	CredibilityScore int
}

type sampleVault struct {
	Title           string
	Description     string
	Content         string
	Preview         string
	FundingGoal     float64
	DurationDays    int
	PledgedAmount   float64
	BackersCount    int
	ContentWarnings []string
	Tags            []string
	Featured        bool
}

var sampleUsers = []sampleUser{
	{
		Email:            "riya.kapoor@example.com",
		Username:         "BollywoodInsider",
		UserType:         models.UserTypeWhisperer,
		Bio:              "Former assistant director with access to industry secrets. Verified Bollywood insider with 5+ years on sets.",
		CredibilityScore: 85,
	},
	{
		Email:            "arjun.mehta@example.com",
		Username:         "CrimeListener",
		UserType:         models.UserTypeListener,
		Bio:              "True crime enthusiast and secret collector. Always hunting for the next big revelation.",
		CredibilityScore: 45,
	},
	{
		Email:            "corporate.whale@example.com",
		Username:         "SiliconSecrets",
		UserType:         models.UserTypeWhisperer,
		Bio:              "Senior executive at major tech companies. Know where all the bodies are buried in Silicon Valley.",
		CredibilityScore: 92,
	},
	{
		Email:            "political.insider@example.com",
		Username:         "CapitalWhispers",
		UserType:         models.UserTypeWhisperer,
		Bio:              "Former political journalist with connections in highest circles. Retired but still connected.",
		CredibilityScore: 78,
	},
	{
		Email:            "sports.fan@example.com",
		Username:         "GameChanger",
		UserType:         models.UserTypeListener,
		Bio:              "Sports betting expert always looking for inside information on match-fixing and player controversies.",
		CredibilityScore: 60,
	},
}

var sampleVaults = []sampleVault{
	{
		Title:           "Superstar's On-Set Meltdown That Cost ₹50 Crores",
		Description:     "A major Bollywood A-lister's complete breakdown during a high-budget film shoot that led to the project being shelved indefinitely. Names, dates, and unreleased footage details included.",
		Content:         "During the filming of 'Project Phoenix' in March 2024, [MAJOR STAR] had a complete meltdown on set after discovering their co-star was being paid more. They threw a chair at the director, walked off set, and the incident was caught on camera by 12 crew members. The production company had to pay ₹50 crores in damages and the film was never completed. I have the WhatsApp screenshots between the producer and star's manager, plus the security footage timestamps.",
		Preview:         "A Bollywood superstar's epic meltdown cost a production house ₹50 crores and ended a major film. I was there, I have proof, and the names will shock you.",
		FundingGoal:     75000,
		DurationDays:    14,
		PledgedAmount:   23500,
		BackersCount:    47,
		ContentWarnings: []string{"Language", "Violence", "Adult Content"},
		Tags:            []string{"bollywood", "exclusive", "insider", "scandal"},
		Featured:        true,
	},
	{
		Title:           "Tech Unicorn's Fake Revenue Scandal",
		Description:     "How India's most celebrated startup inflated revenue by 400% using shell companies and fake transactions. Complete paper trail and whistleblower evidence.",
		Content:         "Between 2022-2024, [UNICORN STARTUP] created 15 shell companies to fake ₹2000+ crores in revenue. As the CFO's assistant, I have access to the real books, bank statements, and WhatsApp groups where they planned the fraud. The company is about to go public with these fake numbers. I have 500+ pages of evidence including signed documents from the CEO admitting to the fraud in writing.",
		Preview:         "India's most celebrated unicorn startup has been faking revenue using shell companies. I'm ready to expose the ₹2000+ crore fraud with full documentation.",
		FundingGoal:     125000,
		DurationDays:    21,
		PledgedAmount:   45000,
		BackersCount:    89,
		ContentWarnings: []string{"Financial Crime", "Legal Implications"},
		Tags:            []string{"corporate", "fraud", "startup", "whistleblower"},
		Featured:        true,
	},
	{
		Title:           "Political Leader's Secret Foreign Funding Network",
		Description:     "How a prominent Indian political figure receives millions in foreign funding through cryptocurrency and shell companies. Names, amounts, and transaction records included.",
		Content:         "Since 2020, [MAJOR POLITICAL LEADER] has been receiving $2M+ annually from foreign sources through a complex network of crypto wallets and shell companies registered in Dubai and Singapore. As their former digital currency advisor, I have wallet addresses, transaction histories, and recorded conversations where they discuss using this money for election campaigns. This is a clear violation of FCRA and election laws.",
		Preview:         "A major Indian political figure has been secretly receiving millions in foreign funding through crypto. I have the wallet addresses and transaction proof.",
		FundingGoal:     200000,
		DurationDays:    30,
		PledgedAmount:   67000,
		BackersCount:    134,
		ContentWarnings: []string{"Political Content", "Legal Implications", "National Security"},
		Tags:            []string{"politics", "corruption", "foreign-funding", "crypto"},
	},
	{
		Title:           "Influencer Cartel's Price Fixing Scam",
		Description:     "How top Instagram influencers formed a secret cartel to fix brand collaboration rates and destroy smaller creators. Screenshots, voice notes, and contracts included.",
		Content:         "15 top Indian influencers (5M+ followers each) formed 'The Circle', a secret group that fixes minimum rates for brand deals, blacklists smaller creators, and manipulates trending hashtags. I was their social media manager and have 6 months of WhatsApp conversations, rate cards, and evidence of how they killed emerging creators' careers by spreading false rumors to brands.",
		Preview:         "India's top influencers run a secret cartel that fixes prices and destroys smaller creators. I managed their conspiracy for 6 months.",
		FundingGoal:     50000,
		DurationDays:    12,
		PledgedAmount:   15000,
		BackersCount:    28,
		ContentWarnings: []string{"Business Ethics", "Manipulation"},
		Tags:            []string{"influencer", "social-media", "cartel", "conspiracy"},
	},
	{
		Title:           "Cricket Match-Fixing Ring Still Operating",
		Description:     "Active match-fixing network involving international players, bookies, and team officials. Current operations, code words, and betting patterns exposed.",
		Content:         "The 2024 match-fixing network is bigger than ever. I'm a former bookie who worked with players from 3 national teams including [MAJOR CRICKET NATION]. We fixed 12 matches in the last World Cup using signal systems, predetermined scores, and cryptocurrency payments. I have player chat logs, payment records, and video evidence of signals being given during live matches. The network is still active and planning to fix upcoming series.",
		Preview:         "Match-fixing in cricket never stopped, it just got smarter. I was inside the 2024 network that fixed World Cup matches. Still active.",
		FundingGoal:     300000,
		DurationDays:    25,
		PledgedAmount:   89000,
		BackersCount:    178,
		ContentWarnings: []string{"Sports Corruption", "Gambling", "Legal Issues"},
		Tags:            []string{"cricket", "match-fixing", "sports", "corruption"},
		Featured:        true,
	},
	{
		Title:           "Media House's Fake News Factory Operations",
		Description:     "How India's largest news channel manufactures fake news stories, manipulates public opinion, and gets paid by political parties for propaganda.",
		Content:         "As a senior editor at [MAJOR NEWS CHANNEL], I ran their 'Narrative Control' department for 3 years. We manufactured 200+ fake news stories, created deepfake videos of opposition leaders, and received ₹50 lakhs monthly from ruling party for propaganda. I have the complete fake news database, payment records, deepfake software access, and recorded editorial meetings where we planned disinformation campaigns.",
		Preview:         "India's largest news channel runs a fake news factory. I was the chief editor for 3 years and have proof of every manufactured story.",
		FundingGoal:     150000,
		DurationDays:    18,
		PledgedAmount:   32000,
		BackersCount:    64,
		ContentWarnings: []string{"Media Manipulation", "Political Content", "Disinformation"},
		Tags:            []string{"media", "fake-news", "propaganda", "journalism"},
	},
}

var sampleComments = []string{
	"This sounds absolutely insane! Can't wait for the reveal 🔥",
	"Finally someone with the guts to expose the truth",
	"I've been waiting for someone to spill this tea ☕",
	"This better be worth every rupee I'm pledging",
	"The preview alone is mind-blowing. Take my money!",
	"About time someone exposed this corruption",
	"I know this is true - I've heard rumors for years",
	"This is going to break the internet when it comes out",
	"Respect for having the courage to speak up 👏",
	"The evidence better be solid for this price",
}
