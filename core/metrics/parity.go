package metrics

// UK gallon, litres.
const litresPerGallon = 4.54609

// PetrolPencePerMile returns the petrol running cost in p/mi from a pump
// price in p/litre and a UK MPG figure. ok is false for invalid inputs.
func PetrolPencePerMile(pricePPerLitre, mpg float64) (ppm float64, ok bool) {
	if pricePPerLitre <= 0 || mpg <= 0 {
		return 0, false
	}
	return pricePPerLitre * litresPerGallon / mpg, true
}

// ParityRatePPerKWh returns the charging rate (p/kWh) at which driving cost
// equals the petrol reference, for direct comparison against tariffs. A mile
// takes 1/eff kWh, so the break-even rate is petrol p/mi times mi/kWh.
func ParityRatePPerKWh(pricePPerLitre, mpg, effMiPerKWh float64) (rate float64, ok bool) {
	ppm, ok := PetrolPencePerMile(pricePPerLitre, mpg)
	if !ok || effMiPerKWh <= 0 {
		return 0, false
	}
	return ppm * effMiPerKWh, true
}
