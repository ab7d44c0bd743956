/*
Package report computes the data behind the operational reports: per-facility
gold grade statistics and the daily operations summary.

Grade takes the stored lab samples of one facility and, per sample type,
counts the samples and summarizes the detected Au values (mean, min, max and
sample standard deviation). A detected value more than two standard
deviations above its type's mean is listed as an outlier.

Daily filters shipments, bunker loads and lab samples to one date and totals
shipped and loaded tonnage overall and per facility.

Both functions are pure; rendering the result is left to the caller, which
prints it as JSON or serves it over HTTP.
*/
package report
