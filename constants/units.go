package constants

// UnitPattern is the alternation of measurement units the heuristic
// extractor recognizes immediately after a numeric value. Covers the
// concentration, enzyme-activity and count units seen on common lab
// panels, plus unicode micro variants OCR-free PDF text tends to carry.
const UnitPattern = `mg/dl|mmol/l|iu/l|u/l|ng/ml|µg/l|μg/l|mcg/l|g/l|pg/ml|%|fl|fL|10\^9/L|10\^3/µL|μl|µl|ml|l|mm/h|kat/l`
