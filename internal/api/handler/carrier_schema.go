package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Shared request fragments ---

type locationRequest struct {
	StreetLines []string `json:"street_lines"  validate:"max=3"`
	City        string   `json:"city"`
	Province    string   `json:"province"`
	PostalCode  string   `json:"postal_code"`
	CountryCode string   `json:"country_code"  validate:"required,len=2"`
	Commercial  bool     `json:"commercial"`

	Name        string `json:"name"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	Fax         string `json:"fax"`
}

type weightRequest struct {
	Value float64 `json:"value" validate:"required,gt=0"`
	Unit  string  `json:"unit"  validate:"required,oneof=lb oz kg g"`
}

type dimensionRequest struct {
	Value float64 `json:"value" validate:"gte=0"`
	Unit  string  `json:"unit"  validate:"omitempty,oneof=in cm"`
}

type packageRequest struct {
	Weight        weightRequest    `json:"weight"         validate:"required"`
	Length        dimensionRequest `json:"length"`
	Width         dimensionRequest `json:"width"`
	Height        dimensionRequest `json:"height"`
	DeclaredValue float64          `json:"declared_value" validate:"gte=0"`
	Currency      string           `json:"currency"       validate:"omitempty,len=3"`
	Description   string           `json:"description"`
}

type packageLineItemRequest struct {
	packageRequest
	InsuredAmount   float64 `json:"insured_amount"   validate:"gte=0"`
	InsuredCurrency string  `json:"insured_currency" validate:"omitempty,len=3"`
	ReferenceType   string  `json:"reference_type"`
	ReferenceValue  string  `json:"reference_value"`
}

type contactRequest struct {
	PersonName    string `json:"person_name" validate:"required"`
	CompanyName   string `json:"company_name"`
	PhoneNumber   string `json:"phone_number"`
	PhoneExt      string `json:"phone_ext"`
	Email         string `json:"email" validate:"omitempty,email"`
	ShipperNumber string `json:"shipper_number"`
	FaxNumber     string `json:"fax_number"`
}

// optionsRequest exposes the per-call knobs; every field is optional.
type optionsRequest struct {
	ServiceCode            string `json:"service_code"`
	PackagingType          string `json:"packaging_type"`
	DropoffType            string `json:"dropoff_type"`
	PickupType             string `json:"pickup_type"`
	CustomerClassification string `json:"customer_classification"`
	LabelFormatType        string `json:"label_format_type"`
	ImageType              string `json:"image_type"`
	MaxAddressMatches      int    `json:"max_address_matches" validate:"gte=0"`
	StreetAccuracy         string `json:"street_accuracy"     validate:"omitempty,oneof=EXACT TIGHT MEDIUM LOOSE"`
}

// --- Operation requests ---

type rateRequest struct {
	Origin      locationRequest  `json:"origin"      validate:"required"`
	Destination locationRequest  `json:"destination" validate:"required"`
	Packages    []packageRequest `json:"packages"    validate:"required,min=1,dive"`
	Options     *optionsRequest  `json:"options"`
}

type addressValidationRequest struct {
	// Addresses is keyed by a caller-chosen id echoed back per result.
	Addresses map[string]locationRequest `json:"addresses" validate:"required,min=1,dive"`
	Options   *optionsRequest            `json:"options"`
}

type addressVerificationRequest struct {
	Address locationRequest `json:"address" validate:"required"`
	Options *optionsRequest `json:"options"`
}

type pickupAvailabilityRequest struct {
	Address          locationRequest  `json:"address"            validate:"required"`
	DispatchDate     string           `json:"dispatch_date"      validate:"required,datetime=2006-01-02"`
	ScheduleDays     []string         `json:"schedule_days"      validate:"required,min=1,dive,oneof=same_day future_day"`
	PackageReadyTime string           `json:"package_ready_time" validate:"required"`
	CloseTime        string           `json:"close_time"         validate:"required"`
	CarrierCodes     []string         `json:"carrier_codes"`
	Packages         []packageRequest `json:"packages"           validate:"required,min=1,dive"`
	Options          *optionsRequest  `json:"options"`
}

type dispatchRequest struct {
	Contact  contactRequest  `json:"contact"  validate:"required"`
	Location locationRequest `json:"location" validate:"required"`

	ReadyTime  string `json:"ready_time"  validate:"required"`
	CloseTime  string `json:"close_time"  validate:"required"`
	PickupDate string `json:"pickup_date" validate:"required,datetime=2006-01-02"`

	PackageCount int              `json:"package_count" validate:"gte=0"`
	Packages     []packageRequest `json:"packages"      validate:"required,min=1,dive"`

	CarrierOrServiceCode   string `json:"carrier_or_service_code" validate:"required"`
	DestinationCountryCode string `json:"destination_country_code"`
	ContainerCode          string `json:"container_code"`

	Residential *bool `json:"residential"`

	Options *optionsRequest `json:"options"`
}

type shippingRequest struct {
	ShipTimestamp string `json:"ship_timestamp" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`

	DropoffType   string `json:"dropoff_type"`
	ServiceType   string `json:"service_type" validate:"required"`
	PackagingType string `json:"packaging_type"`

	Shipper   partyRequest `json:"shipper"   validate:"required"`
	Recipient partyRequest `json:"recipient" validate:"required"`

	PayorCountryCode string `json:"payor_country_code" validate:"omitempty,len=2"`

	Packages []packageLineItemRequest `json:"packages" validate:"required,min=1,dive"`

	Options *optionsRequest `json:"options"`
}

type partyRequest struct {
	Contact  contactRequest  `json:"contact"  validate:"required"`
	Location locationRequest `json:"location" validate:"required"`
}

type trackingRefreshRequest struct {
	TrackingNumbers []string `json:"tracking_numbers" validate:"required,min=1,dive,required"`
}

// --- Responses ---

// envelopeResponse mirrors domain.Response minus the raw body.
type envelopeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type surchargeResponse struct {
	Name     string `json:"name"`
	Code     string `json:"code,omitempty"`
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

type rateEstimateResponse struct {
	Carrier       string              `json:"carrier"`
	ServiceName   string              `json:"service_name"`
	ServiceCode   string              `json:"service_code"`
	TotalPrice    float64             `json:"total_price"`
	Currency      string              `json:"currency"`
	DeliveryRange []string            `json:"delivery_range,omitempty"`
	Surcharges    []surchargeResponse `json:"surcharges,omitempty"`
}

type rateResponse struct {
	envelopeResponse
	Rates []rateEstimateResponse `json:"rates"`
}

type locationResponse struct {
	StreetLines []string `json:"street_lines,omitempty"`
	City        string   `json:"city,omitempty"`
	Province    string   `json:"province,omitempty"`
	PostalCode  string   `json:"postal_code,omitempty"`
	CountryCode string   `json:"country_code,omitempty"`
}

type shipmentEventResponse struct {
	Description string           `json:"description"`
	Time        string           `json:"time"`
	Location    locationResponse `json:"location"`
}

type trackingResponse struct {
	envelopeResponse
	TrackingNumber    string                  `json:"tracking_number,omitempty"`
	Status            string                  `json:"status,omitempty"`
	StatusCode        string                  `json:"status_code,omitempty"`
	StatusDescription string                  `json:"status_description,omitempty"`
	Origin            *locationResponse       `json:"origin,omitempty"`
	Destination       *locationResponse       `json:"destination,omitempty"`
	ScheduledDelivery string                  `json:"scheduled_delivery,omitempty"`
	Events            []shipmentEventResponse `json:"events,omitempty"`
	Delivered         bool                    `json:"delivered"`
	Exception         bool                    `json:"exception"`
}

type validatedAddressResponse struct {
	AddressID   string           `json:"address_id"`
	Score       int              `json:"score"`
	Changes     []string         `json:"changes,omitempty"`
	Deliverable bool             `json:"deliverable"`
	Verdict     string           `json:"verdict"`
	Location    locationResponse `json:"location"`
}

type addressValidationResponse struct {
	envelopeResponse
	Addresses []validatedAddressResponse `json:"addresses"`
}

type classificationResponse struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type candidateResponse struct {
	Classification classificationResponse `json:"classification"`
	Location       locationResponse       `json:"location"`
}

type addressVerificationResponse struct {
	envelopeResponse
	CityLevelStatus   bool                    `json:"city_level_status"`
	StreetLevelStatus *bool                   `json:"street_level_status,omitempty"`
	Valid             bool                    `json:"valid"`
	ValidAddress      bool                    `json:"valid_address"`
	Classification    *classificationResponse `json:"classification,omitempty"`
	Candidates        []candidateResponse     `json:"candidates,omitempty"`
}

type pickupOptionResponse struct {
	Carrier              string `json:"carrier"`
	ScheduleDay          string `json:"schedule_day"`
	Available            bool   `json:"available"`
	PickupDate           string `json:"pickup_date,omitempty"`
	CutoffTime           string `json:"cutoff_time,omitempty"`
	AccessTime           string `json:"access_time,omitempty"`
	ResidentialAvailable bool   `json:"residential_available"`
}

type pickupAvailabilityResponse struct {
	envelopeResponse
	Options []pickupOptionResponse `json:"options"`
}

type chargeResponse struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

type dispatchResponse struct {
	envelopeResponse
	ConfirmationNumber string          `json:"confirmation_number,omitempty"`
	PickupLocation     string          `json:"pickup_location,omitempty"`
	TotalCharge        *chargeResponse `json:"total_charge,omitempty"`
}

type labelResponse struct {
	ImageFormat        string `json:"image_format,omitempty"`
	GraphicImageBase64 string `json:"graphic_image_base64,omitempty"`
	HTMLImageBase64    string `json:"html_image_base64,omitempty"`
}

type packageShippingResponse struct {
	TrackingNumber        string         `json:"tracking_number"`
	ServiceOptionsCharges chargeResponse `json:"service_options_charges"`
	Label                 labelResponse  `json:"label"`
}

type shippingResponse struct {
	envelopeResponse
	ShipmentID     string                    `json:"shipment_id,omitempty"`
	Transportation chargeResponse            `json:"transportation_charges"`
	ServiceOptions chargeResponse            `json:"service_options_charges"`
	Total          chargeResponse            `json:"total_charges"`
	BillingWeight  string                    `json:"billing_weight,omitempty"`
	Packages       []packageShippingResponse `json:"packages,omitempty"`
}

type statusPairResponse struct {
	Code        string `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

type voidResponse struct {
	envelopeResponse
	Status        statusPairResponse `json:"status"`
	SummaryResult statusPairResponse `json:"summary_result"`
}

type acceptedResponse struct {
	Accepted int `json:"accepted"`
}
