package registry

const (
	cmsDataApi      = "https://data.cms.gov/data-api/v1/dataset/"
	cmsProviderData = "https://data.cms.gov/provider-data/api/1/datastore/query/"
)

// CMS lists the nursing home datasets published by the Centers for Medicare
// & Medicaid Services. The data-api datasets answer with a JSON array, the
// provider-data datastore answers with an object holding `results`.
var CMS = []Dataset{
	{Name: "facility_level_mds_frequency", Url: cmsDataApi + "d086edc0-4953-4fb9-a663-b35526371add/data"},
	{Name: "minimum_data_set_frequency", Url: cmsDataApi + "4b50bbe6-a496-4eda-b03b-5f835937f81b/data"},

	{Name: "provider_information", Url: cmsProviderData + "4pq5-n9py"},
	{Name: "mds_quality_measures", Url: cmsProviderData + "qrzv-wzg8"},
	{Name: "penalties", Url: cmsProviderData + "cg87-xh25"},
	{Name: "state_level_health_inspection_cut_points", Url: cmsProviderData + "g6i4-kqyf"},
	{Name: "fire_safety_deficiencies", Url: cmsProviderData + "vqhv-57b6"},
	{Name: "medicare_claims_quality_measures", Url: cmsProviderData + "9wzi-peqs"},
	{Name: "inspection_dates", Url: cmsProviderData + "wqib-ffaw"},
	{Name: "survey_summary", Url: cmsProviderData + "ck7a-9ke6"},
	{Name: "state_us_averages", Url: cmsProviderData + "b27b-2uc7"},
	{Name: "ownership", Url: cmsProviderData + "qrfu-jxw5"},
	{Name: "fy2025_snf_vbp_facility", Url: cmsProviderData + "gfak-4jue"},
	{Name: "fy2025_snf_vbp_aggregate", Url: cmsProviderData + "mv7z-s9i4"},
	{Name: "health_deficiencies", Url: cmsProviderData + "94xx-f87h"},
	{Name: "nursing_home_data_collection_intervals", Url: cmsProviderData + "2utd-q6zu"},
	{Name: "snf_qrp_national", Url: cmsProviderData + "28km-nzmh"},
	{Name: "snf_qrp_swing_beds", Url: cmsProviderData + "6ni9-j8pf"},
	{Name: "snf_qrp_provider", Url: cmsProviderData + "jbvm-jnvh"},
}

// Default returns a registry of the CMS datasets.
func Default() Registry {
	r, err := New(CMS)
	if err != nil {
		panic(err)
	}
	return r
}
