// Package content holds the storefront's static copy: FAQ entries, the home
// page promotions, the blog article and the about page.
package content

// FAQ is one accordion entry.
type FAQ struct {
	Question string
	Answer   string
}

// Promo is a hand-picked product shown on the home page.
type Promo struct {
	Title    string
	Brand    string
	Price    float64
	OldPrice float64
	Rating   float64
}

// Feature is a short selling point with a title and one line of text.
type Feature struct {
	Title string
	Text  string
}

// Stat is a headline figure on the about page.
type Stat struct {
	Value string
	Label string
}

var FAQs = []FAQ{
	{Question: "What Facilities Does Your Hotel Have?", Answer: "Our partner kitchens share one standard for storage, handling and packing, so every order leaves in the same condition."},
	{Question: "How Do I Book A Room For My Vacation?", Answer: "You can book through our website, mobile app, or by calling our support line 24/7."},
	{Question: "How are we best among others?", Answer: "We source the freshest produce, maintain strict QC standards, and deliver fast."},
	{Question: "Is There Any Fitness Center In Your Hotel?", Answer: "Yes, a modern gym with free weights and classes every morning."},
	{Question: "What Type Of Room Service Do You Offer?", Answer: "24/7 room service with a seasonal menu and healthy choices."},
	{Question: "What Facilities Does Your Hotel Have?", Answer: "Pool, spa, concierge, kids' corner, co-working lounge and airport shuttle."},
	{Question: "How Do I Book A Room For My Vacation?", Answer: "Pick dates, choose a room, add extras and pay securely."},
}

// DealsOfTheDay are the discounted products on the home page.
var DealsOfTheDay = []Promo{
	{Title: "Seeds of Change Organic Quinoa, Brown, & Red Rice", Brand: "NestFood", Price: 32.85, OldPrice: 33.80, Rating: 4.0},
	{Title: "Perdue Simply Smart Organics Gluten Free", Brand: "Old El Paso", Price: 24.85, OldPrice: 26.80, Rating: 4.0},
	{Title: "Signature Wood-Fired Mushroom and Caramelized", Brand: "Progresso", Price: 12.85, OldPrice: 15.80, Rating: 3.0},
	{Title: "Simply Lemonade with Raspberry Juice", Brand: "Yoplait", Price: 15.85, OldPrice: 16.80, Rating: 3.0},
}

// DailyBestsellers are the best selling products on the home page.
var DailyBestsellers = []Promo{
	{Title: "Aegle marmelos Fruit", Price: 32.00, OldPrice: 40.00},
	{Title: "Organic Tomato Chips", Price: 18.00, OldPrice: 25.00},
	{Title: "Toasted Turmeric Crispy", Price: 22.00, OldPrice: 28.00},
	{Title: "Avocado Lighting", Price: 16.00, OldPrice: 20.00},
}

// Perks is the strip of store promises under the home page sections.
var Perks = []Feature{
	{Title: "Best prices & offers", Text: "Orders $50 or more"},
	{Title: "Free delivery", Text: "24/7 amazing services"},
	{Title: "Great daily deal", Text: "When you sign up"},
	{Title: "Wide assortment", Text: "Mega Discounts"},
	{Title: "Easy returns", Text: "Within 30 days"},
	{Title: "Fast Shipping", Text: "Nationwide Coverage"},
}

const (
	AboutTitle = "About The Carrot"
	AboutImage = "https://images.unsplash.com/photo-1542838132-92c53300491e?q=80&w=1470&auto=format&fit=crop"
)

var AboutParagraphs = []string{
	"FoodTrove started as a weekend market stall and grew into an online grocer for people who cook at home.",
	"We work directly with growers and small producers, which keeps the supply chain short and the produce fresh.",
	"Every recipe in the catalog comes with the ingredients you need, so dinner is one basket away.",
}

var AboutStats = []Stat{
	{Value: "0.1k", Label: "Vendors"},
	{Value: "23k", Label: "Customers"},
	{Value: "2k", Label: "Products"},
}

var AboutFeatures = []Feature{
	{Title: "Product Packing", Text: "Chilled items travel in insulated boxes."},
	{Title: "24x7 Support", Text: "Talk to a person at any hour."},
	{Title: "Delivery in 5 Days", Text: "Anywhere in the country, tracked end to end."},
	{Title: "Payment Secure", Text: "Card details never touch our servers."},
}

// Blog is the single article on the blog page.
const (
	BlogTitle = "10 Tasty Organic Fruits Choose"
	BlogPages = 5
)

var BlogParagraphs = []string{
	"Organic fruit is grown without synthetic pesticides, and most of the time it simply tastes better.",
	"Start with what is in season: berries in early summer, stone fruit through August, apples and pears in the autumn.",
	"Buy little and often. Soft fruit keeps for a few days at most, and a half-empty bowl is a reason to go back to the market.",
}
