package registry

// ameliBase is the extraction batch of the annuaire santé Ameli dataset
// on data.gouv.fr that the built-in definitions point at. The registry
// file can repoint any category at a newer batch.
const ameliBase = "https://static.data.gouv.fr/resources/annuaire-sante-ameli/20260105-014401/"

// builtinCategories are the compiled-in definitions, one per profession
// published by the annuaire, plus the full list. All extracts of the
// batch share the separator and encoding.
var builtinCategories = []Category{
	{
		Key:       "tous",
		Label:     "Toutes professions",
		URL:       ameliBase + "liste-ps-20260105-023058.csv",
		Separator: DefaultSeparator,
		Encoding:  EncodingUTF8,
	},
	{
		Key:       "medecin",
		Label:     "Médecins",
		URL:       ameliBase + "liste-ps-medecins-20260105-023058.csv",
		Separator: DefaultSeparator,
		Encoding:  EncodingUTF8,
	},
	{
		Key:       "chirurgien-dentiste",
		Label:     "Chirurgiens-dentistes",
		URL:       ameliBase + "liste-ps-chirurgiens-dentistes-20260105-023058.csv",
		Separator: DefaultSeparator,
		Encoding:  EncodingUTF8,
	},
	{
		Key:       "sage-femme",
		Label:     "Sages-femmes",
		URL:       ameliBase + "liste-ps-sages-femmes-20260105-023058.csv",
		Separator: DefaultSeparator,
		Encoding:  EncodingUTF8,
	},
	{
		Key:       "infirmier",
		Label:     "Infirmiers",
		URL:       ameliBase + "liste-ps-infirmiers-20260105-023058.csv",
		Separator: DefaultSeparator,
		Encoding:  EncodingUTF8,
	},
	{
		Key:       "masseur-kinesitherapeute",
		Label:     "Masseurs-kinésithérapeutes",
		URL:       ameliBase + "liste-ps-masseurs-kinesitherapeutes-20260105-023058.csv",
		Separator: DefaultSeparator,
		Encoding:  EncodingUTF8,
	},
	{
		Key:       "orthophoniste",
		Label:     "Orthophonistes",
		URL:       ameliBase + "liste-ps-orthophonistes-20260105-023058.csv",
		Separator: DefaultSeparator,
		Encoding:  EncodingUTF8,
	},
	{
		Key:       "orthoptiste",
		Label:     "Orthoptistes",
		URL:       ameliBase + "liste-ps-orthoptistes-20260105-023058.csv",
		Separator: DefaultSeparator,
		Encoding:  EncodingUTF8,
	},
	{
		Key:       "pedicure-podologue",
		Label:     "Pédicures-podologues",
		URL:       ameliBase + "liste-ps-pedicures-podologues-20260105-023058.csv",
		Separator: DefaultSeparator,
		Encoding:  EncodingUTF8,
	},
}
