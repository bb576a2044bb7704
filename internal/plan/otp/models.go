package otp

// graphqlRequest is the POST envelope sent to the engine: the query template
// text plus its variables.
type graphqlRequest struct {
	Query     string        `json:"query"`
	Variables planVariables `json:"variables"`
}

// planVariables carries the plan query variables in the engine's camelCase
// wire convention.
type planVariables struct {
	Date           string           `json:"date"`
	Time           string           `json:"time"`
	From           inputCoordinates `json:"from"`
	To             inputCoordinates `json:"to"`
	Wheelchair     bool             `json:"wheelchair"`
	NumItineraries int              `json:"numItineraries"`
	ArriveBy       bool             `json:"arriveBy"`
	TransportModes []transportMode  `json:"transportModes"`
}

type inputCoordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type transportMode struct {
	Mode string `json:"mode"`
}

// graphqlResponse is the engine's reply envelope.
type graphqlResponse struct {
	Data *struct {
		Plan *otpPlan `json:"plan"`
	} `json:"data"`
	Errors []graphqlError `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// otpPlan is the payload at data.plan.
type otpPlan struct {
	Date        int64          `json:"date"` // epoch milliseconds
	From        otpPlace       `json:"from"`
	To          otpPlace       `json:"to"`
	Itineraries []otpItinerary `json:"itineraries"`
}

type otpPlace struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type otpItinerary struct {
	StartTime int64    `json:"startTime"` // epoch milliseconds
	EndTime   int64    `json:"endTime"`   // epoch milliseconds
	Duration  int      `json:"duration"`  // seconds
	Legs      []otpLeg `json:"legs"`
}

type otpLeg struct {
	Mode        string      `json:"mode"`
	Duration    float64     `json:"duration"` // seconds
	Distance    float64     `json:"distance"` // meters
	LegGeometry otpGeometry `json:"legGeometry"`
	Steps       []otpStep   `json:"steps"`
}

type otpGeometry struct {
	Points string `json:"points"` // encoded polyline
	Length int    `json:"length"`
}

type otpStep struct {
	Distance          float64 `json:"distance"`
	Lat               float64 `json:"lat"`
	Lon               float64 `json:"lon"`
	RelativeDirection string  `json:"relativeDirection"`
	AbsoluteDirection string  `json:"absoluteDirection"`
	StreetName        string  `json:"streetName"`
	BogusName         bool    `json:"bogusName"`
}
